package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/priyankashah3107/notes/internal/service"
)

// NoteHandler serves the note CRUD routes.
type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// List handles GET /api/notes: everything the caller authored plus
// everything shared with them, most recently updated first.
func (h *NoteHandler) List(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	notes, err := h.noteService.ListNotes(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"notes": notes})
}

type CreateNoteRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

// Create handles POST /api/notes.
func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("create note: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: title and content are required")
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), userID, req.Title, req.Content, req.Category)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, gin.H{"note": note})
}

// Get handles GET /api/notes/:id. Author or sharee only.
func (h *NoteHandler) Get(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	noteID := c.Param("id")

	note, err := h.noteService.GetNote(c.Request.Context(), userID, noteID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"note": note})
}

type UpdateNoteRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

// Update handles PUT /api/notes/:id. Author only; the stored note is
// overwritten wholesale with the request body.
func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	noteID := c.Param("id")

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("update note: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: title and content are required")
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), userID, noteID, req.Title, req.Content, req.Category)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"note": note})
}

// Delete handles DELETE /api/notes/:id. Author only.
func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	noteID := c.Param("id")

	if err := h.noteService.DeleteNote(c.Request.Context(), userID, noteID); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Note deleted"})
}
