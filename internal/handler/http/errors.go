package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Hetav2211/Frontend-Codac/internal/api"
	"github.com/Hetav2211/Frontend-Codac/internal/room"
)

// HandleRoomError maps controller errors onto HTTP status codes.
func HandleRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, room.ErrMissingRoomInfo),
		errors.Is(err, room.ErrInvalidLanguage),
		errors.Is(err, room.ErrEmptyMessage):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, room.ErrRoomQuotaExceeded),
		errors.Is(err, room.ErrNotLeader),
		errors.Is(err, room.ErrEditorLocked),
		errors.Is(err, room.ErrChatNotAllowed):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, room.ErrNotJoined):
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled room error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// HandleBackendError maps collaborator failures. Backend-reported errors
// keep their message and status; transport failures become a 502.
func HandleBackendError(c *gin.Context, err error) {
	var se *api.StatusError
	if errors.As(err, &se) {
		ErrorResponse(c, se.Code, se.Message)
		return
	}
	if errors.Is(err, api.ErrRatingRequired) || errors.Is(err, api.ErrEmptyMessage) {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	logrus.WithError(err).Warn("backend unreachable")
	ErrorResponse(c, http.StatusBadGateway, "The backend service is unavailable")
}
