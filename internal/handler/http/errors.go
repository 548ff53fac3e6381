package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/priyankashah3107/notes/internal/service"
)

// HandleServiceError maps business errors onto HTTP status codes:
// NotFound -> 404, Unauthorized -> 401, ValidationError -> 400,
// Conflict -> 409, anything else -> 500.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrNotAuthorized):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNoteNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrShareNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrRegistrationFailed):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadyShared):
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.WithError(err).Error("unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// authenticatedUserID reads the user id set by the auth middleware. The
// second return is false when the middleware did not run, which is a routing
// bug, not a client error.
func authenticatedUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logrus.Warn("handler: user id not found in context, auth middleware missing?")
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("handler: user id in context is not uint")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return 0, false
	}
	return userID, true
}
