package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/domain"
	"github.com/Hetav2211/Frontend-Codac/internal/room"
)

// RoomHandler exposes the room view controller over the local JSON API.
type RoomHandler struct {
	ctrl *room.Controller
	log  *logrus.Logger
}

func NewRoomHandler(ctrl *room.Controller, log *logrus.Logger) *RoomHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RoomHandler{ctrl: ctrl, log: log}
}

// State returns the current room snapshot.
func (h *RoomHandler) State(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, h.ctrl.State())
}

type createRoomResponse struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// Create generates a fresh room id, subject to the Free-plan daily quota.
func (h *RoomHandler) Create(c *gin.Context) {
	id, err := h.ctrl.CreateRoomID()
	if err != nil {
		HandleRoomError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, createRoomResponse{RoomID: id, Message: "Room created"})
}

type joinRoomRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	UserName string `json:"userName" binding:"required"`
}

// Join enters a room and persists the session.
func (h *RoomHandler) Join(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, room.ErrMissingRoomInfo.Error())
		return
	}
	if err := h.ctrl.Join(req.RoomID, req.UserName); err != nil {
		HandleRoomError(c, err)
		return
	}
	h.log.WithFields(logrus.Fields{"room_id": req.RoomID, "user_name": req.UserName}).Info("Handler.Join: joined room")
	SuccessResponse(c, http.StatusOK, h.ctrl.State())
}

// Restore re-enters the persisted session, if one exists.
func (h *RoomHandler) Restore(c *gin.Context) {
	if !h.ctrl.Restore() {
		ErrorResponse(c, http.StatusNotFound, "no saved session")
		return
	}
	SuccessResponse(c, http.StatusOK, h.ctrl.State())
}

// Leave exits the room and clears the persisted session.
func (h *RoomHandler) Leave(c *gin.Context) {
	if err := h.ctrl.Leave(); err != nil {
		HandleRoomError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, h.ctrl.State())
}

type codeRequest struct {
	Code string `json:"code"`
}

// Code applies a local edit and relays it to the room.
func (h *RoomHandler) Code(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.ctrl.SetCode(req.Code); err != nil {
		HandleRoomError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "ok"})
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

// Language switches the room language.
func (h *RoomHandler) Language(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.ctrl.ChangeLanguage(domain.Language(req.Language)); err != nil {
		HandleRoomError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, h.ctrl.State())
}

// Lock asks the server to flip the typing lock.
func (h *RoomHandler) Lock(c *gin.Context) {
	if err := h.ctrl.ToggleTypingLock(); err != nil {
		HandleRoomError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "ok"})
}

type runRequest struct {
	Stdin string `json:"stdin"`
}

// Run submits the buffer for execution. The result arrives asynchronously
// and shows up in the state snapshot's output field.
func (h *RoomHandler) Run(c *gin.Context) {
	var req runRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if err := h.ctrl.RunCode(req.Stdin); err != nil {
		HandleRoomError(c, err)
		return
	}
	SuccessResponse(c, http.StatusAccepted, gin.H{"message": "Running code..."})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat relays a chat message to the room.
func (h *RoomHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, room.ErrEmptyMessage.Error())
		return
	}
	if err := h.ctrl.SendChat(req.Message); err != nil {
		HandleRoomError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "ok"})
}

// ClearChat wipes the room chat, leader only.
func (h *RoomHandler) ClearChat(c *gin.Context) {
	if err := h.ctrl.ClearChat(); err != nil {
		HandleRoomError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "ok"})
}

type downloadRequest struct {
	Dir string `json:"dir"`
}

// Download writes the buffer to disk and returns the path.
func (h *RoomHandler) Download(c *gin.Context) {
	var req downloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Dir == "" {
		req.Dir = "."
	}
	path, err := h.ctrl.Download(req.Dir)
	if err != nil {
		h.log.WithError(err).Error("Handler.Download: failed to write file")
		ErrorResponse(c, http.StatusInternalServerError, "failed to write file")
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"path": path, "message": "Code downloaded!"})
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=dark light"`
}

// Theme persists the theme preference.
func (h *RoomHandler) Theme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "theme must be dark or light")
		return
	}
	h.ctrl.SetTheme(req.Theme == "dark")
	SuccessResponse(c, http.StatusOK, gin.H{"theme": req.Theme})
}
