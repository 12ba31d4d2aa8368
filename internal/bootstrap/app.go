// Package bootstrap wires the application together: configuration, logger,
// session store, realtime channel, room controller and the local HTTP API.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/api"
	httpHandler "github.com/Hetav2211/Frontend-Codac/internal/handler/http"
	"github.com/Hetav2211/Frontend-Codac/internal/realtime"
	"github.com/Hetav2211/Frontend-Codac/internal/room"
	"github.com/Hetav2211/Frontend-Codac/internal/session"
)

const defaultBackendURL = "https://backend-codac.onrender.com"

// Config holds everything loaded from the environment.
type Config struct {
	BackendURL   string
	BackendWSURL string
	ServerPort   string
	DataDir      string
	LogLevel     string
	AppEnv       string
}

// LoadConfig reads configuration from the environment, preferring a .env
// file when one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BackendURL:   os.Getenv("BACKEND_URL"),
		BackendWSURL: os.Getenv("BACKEND_WS_URL"),
		ServerPort:   os.Getenv("SERVER_PORT"),
		DataDir:      os.Getenv("DATA_DIR"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		AppEnv:       os.Getenv("APP_ENV"),
	}

	if cfg.BackendURL == "" {
		cfg.BackendURL = defaultBackendURL
	}
	if cfg.BackendWSURL == "" {
		cfg.BackendWSURL = deriveWSURL(cfg.BackendURL)
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "4000"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// deriveWSURL maps the backend's http(s) base to its websocket endpoint.
func deriveWSURL(base string) string {
	ws := base
	switch {
	case strings.HasPrefix(base, "https://"):
		ws = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		ws = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return ws + "/ws"
}

// App bundles the application components for startup and shutdown.
type App struct {
	Config     *Config
	Log        *logrus.Logger
	Store      *session.Store
	Channel    *realtime.Channel
	Controller *room.Controller
	HttpServer *http.Server

	done chan struct{}
}

// NewApp builds and wires all components. The realtime channel must come
// up for the app to start; the session store degrades to memory.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.New()
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.Info("Initializing session store...")
	store, err := session.Open(filepath.Join(cfg.DataDir, "codac.db"), log)
	if err != nil {
		log.WithError(err).Warn("session store unavailable, preferences will not persist")
		store = session.NewMemory(log)
	}

	log.Info("Connecting realtime channel...")
	channel, err := realtime.Dial(cfg.BackendWSURL, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("connect realtime channel: %w", err)
	}

	apiClient := api.NewClient(cfg.BackendURL, log)
	controller := room.NewController(store, channel, log)

	log.Info("Setting up Gin router...")
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))

	roomHandler := httpHandler.NewRoomHandler(controller, log)
	accountHandler := httpHandler.NewAccountHandler(apiClient, store, controller, log)

	apiRoutes := router.Group("/api")
	{
		apiRoutes.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		apiRoutes.GET("/room", roomHandler.State)
		apiRoutes.POST("/room/create", roomHandler.Create)
		apiRoutes.POST("/room/join", roomHandler.Join)
		apiRoutes.POST("/room/restore", roomHandler.Restore)
		apiRoutes.POST("/room/leave", roomHandler.Leave)
		apiRoutes.POST("/room/code", roomHandler.Code)
		apiRoutes.POST("/room/language", roomHandler.Language)
		apiRoutes.POST("/room/lock", roomHandler.Lock)
		apiRoutes.POST("/room/run", roomHandler.Run)
		apiRoutes.POST("/room/chat", roomHandler.Chat)
		apiRoutes.POST("/room/chat/clear", roomHandler.ClearChat)
		apiRoutes.POST("/room/download", roomHandler.Download)
		apiRoutes.PUT("/theme", roomHandler.Theme)

		apiRoutes.POST("/signup", accountHandler.Signup)
		apiRoutes.POST("/feedback", accountHandler.Feedback)
		apiRoutes.POST("/checkout", accountHandler.Checkout)
		apiRoutes.POST("/plan", accountHandler.Plan)
		apiRoutes.POST("/ai-chat", accountHandler.AIChat)
	}
	log.Info("Router setup complete")

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return &App{
		Config:     cfg,
		Log:        log,
		Store:      store,
		Channel:    channel,
		Controller: controller,
		HttpServer: httpServer,
		done:       make(chan struct{}),
	}, nil
}

// Start launches the event loop and the HTTP server. It returns once the
// server is listening; fatal server errors are logged.
func (a *App) Start() {
	go a.Controller.Run(a.done, a.Channel.Events())

	go func() {
		a.Log.WithField("addr", a.HttpServer.Addr).Info("HTTP server listening")
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.WithError(err).Fatal("HTTP server failed")
		}
	}()
}

// Shutdown leaves the room if joined, then tears down the server, channel
// and store.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.Controller.State().Joined {
		if err := a.Controller.Leave(); err != nil {
			a.Log.WithError(err).Warn("failed to leave room on shutdown")
		}
	}

	close(a.done)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server stopped.")
	}

	a.Channel.Close()
	a.Log.Info("Realtime channel closed.")

	if err := a.Store.Close(); err != nil {
		a.Log.Errorf("Error closing session store: %v", err)
	} else {
		a.Log.Info("Session store closed.")
	}

	a.Log.Info("Application shutdown complete.")
}

// LoggerMiddleware records one structured log line per request.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		if errorMessage != "" {
			entry.Error(errorMessage)
		} else if statusCode >= 500 {
			entry.Error("Server error")
		} else if statusCode >= 400 {
			entry.Warn("Client error")
		} else {
			entry.Info("Request handled")
		}
	}
}
