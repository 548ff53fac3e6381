package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/priyankashah3107/notes/internal/service"
)

// ShareHandler serves the share management routes nested under a note.
type ShareHandler struct {
	shareService *service.ShareService
}

func NewShareHandler(shareService *service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

type ShareRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Create handles POST /api/notes/:id/share.
func (h *ShareHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	noteID := c.Param("id")

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("create share: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: a valid email is required")
		return
	}

	share, err := h.shareService.CreateShare(c.Request.Context(), userID, noteID, req.Email)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, gin.H{"share": share})
}

// Delete handles DELETE /api/notes/:id/share.
func (h *ShareHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	noteID := c.Param("id")

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("delete share: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: a valid email is required")
		return
	}

	if err := h.shareService.DeleteShare(c.Request.Context(), userID, noteID, req.Email); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Share removed"})
}
