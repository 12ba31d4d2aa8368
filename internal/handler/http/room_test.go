package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hetav2211/Frontend-Codac/internal/domain"
	handler "github.com/Hetav2211/Frontend-Codac/internal/handler/http"
	"github.com/Hetav2211/Frontend-Codac/internal/room"
	"github.com/Hetav2211/Frontend-Codac/internal/session"
)

type nopEmitter struct{}

func (nopEmitter) Emit(string, any) error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newRoomRouter(t *testing.T) (*gin.Engine, *room.Controller) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := session.NewMemory(testLogger())
	ctrl := room.NewController(store, nopEmitter{}, testLogger())
	h := handler.NewRoomHandler(ctrl, testLogger())

	router := gin.New()
	api := router.Group("/api")
	api.GET("/room", h.State)
	api.POST("/room/create", h.Create)
	api.POST("/room/join", h.Join)
	api.POST("/room/leave", h.Leave)
	api.POST("/room/code", h.Code)
	api.POST("/room/language", h.Language)
	api.POST("/room/chat", h.Chat)
	api.PUT("/theme", h.Theme)
	return router, ctrl
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoomHandler_JoinReturnsState(t *testing.T) {
	router, _ := newRoomRouter(t)

	w := doJSON(router, http.MethodPost, "/api/room/join", gin.H{"roomId": "ABC123", "userName": "alice"})

	require.Equal(t, http.StatusOK, w.Code)
	var state domain.RoomState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.True(t, state.Joined)
	assert.Equal(t, "ABC123", state.RoomID)
	assert.Equal(t, "alice", state.UserName)
}

func TestRoomHandler_JoinRejectsMissingFields(t *testing.T) {
	router, _ := newRoomRouter(t)

	w := doJSON(router, http.MethodPost, "/api/room/join", gin.H{"roomId": "ABC123"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomHandler_CreateQuotaIsForbidden(t *testing.T) {
	router, _ := newRoomRouter(t)

	for i := 0; i < 3; i++ {
		w := doJSON(router, http.MethodPost, "/api/room/create", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(router, http.MethodPost, "/api/room/create", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "up to 3 rooms")
}

func TestRoomHandler_CodeWithoutJoinConflicts(t *testing.T) {
	router, _ := newRoomRouter(t)

	w := doJSON(router, http.MethodPost, "/api/room/code", gin.H{"code": "x"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRoomHandler_LanguageRejectsUnknown(t *testing.T) {
	router, _ := newRoomRouter(t)
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/room/join", gin.H{"roomId": "R", "userName": "alice"}).Code)

	w := doJSON(router, http.MethodPost, "/api/room/language", gin.H{"language": "cobol"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomHandler_ChatGateIsForbidden(t *testing.T) {
	router, _ := newRoomRouter(t)
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/room/join", gin.H{"roomId": "R", "userName": "alice"}).Code)

	w := doJSON(router, http.MethodPost, "/api/room/chat", gin.H{"message": "hello"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Team plan")
}

func TestRoomHandler_LeaveThenStateUnjoined(t *testing.T) {
	router, _ := newRoomRouter(t)
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/room/join", gin.H{"roomId": "R", "userName": "alice"}).Code)

	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/room/leave", nil).Code)

	w := doJSON(router, http.MethodGet, "/api/room", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state domain.RoomState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.False(t, state.Joined)
}

func TestRoomHandler_ThemeValidation(t *testing.T) {
	router, _ := newRoomRouter(t)

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodPut, "/api/theme", gin.H{"theme": "dark"}).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPut, "/api/theme", gin.H{"theme": "solarized"}).Code)
}
