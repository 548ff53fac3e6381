package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/priyankashah3107/notes/internal/domain"
	"github.com/priyankashah3107/notes/internal/repository"
	"github.com/priyankashah3107/notes/internal/repository/mocks"
	"github.com/priyankashah3107/notes/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newNoteContext builds a test context carrying an authenticated user, the
// way the auth middleware would leave it.
func newNoteContext(t *testing.T, userID uint, method, path string, body []byte, noteID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var err error
	c.Request, err = http.NewRequest(method, path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", userID)
	if noteID != "" {
		c.Params = gin.Params{{Key: "id", Value: noteID}}
	}
	return c, w
}

func TestNoteGetAuthorSeesNote(t *testing.T) {
	noteRepo := new(mocks.NoteRepository)
	note := &domain.Note{ID: "note-1", Title: "Plan", Content: "Q3 roadmap", AuthorID: 7}
	noteRepo.On("FindByID", mock.Anything, "note-1").Return(note, nil)

	handler := NewNoteHandler(service.NewNoteService(noteRepo, nil))
	c, w := newNoteContext(t, 7, "GET", "/api/notes/note-1", nil, "note-1")

	handler.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Q3 roadmap")
}

func TestNoteGetStrangerGets401(t *testing.T) {
	noteRepo := new(mocks.NoteRepository)
	note := &domain.Note{ID: "note-1", Title: "Plan", Content: "secret", AuthorID: 7}
	noteRepo.On("FindByID", mock.Anything, "note-1").Return(note, nil)

	handler := NewNoteHandler(service.NewNoteService(noteRepo, nil))
	c, w := newNoteContext(t, 99, "GET", "/api/notes/note-1", nil, "note-1")

	handler.Get(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestNoteGetMissingGets404(t *testing.T) {
	noteRepo := new(mocks.NoteRepository)
	noteRepo.On("FindByID", mock.Anything, "nope").Return(nil, repository.ErrNoteNotFound)

	handler := NewNoteHandler(service.NewNoteService(noteRepo, nil))
	c, w := newNoteContext(t, 7, "GET", "/api/notes/nope", nil, "nope")

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoteCreateReturns201(t *testing.T) {
	noteRepo := new(mocks.NoteRepository)
	noteRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Note")).Return(nil)

	handler := NewNoteHandler(service.NewNoteService(noteRepo, nil))
	body, _ := json.Marshal(CreateNoteRequest{Title: "Plan", Content: "Q3 roadmap", Category: "work"})
	c, w := newNoteContext(t, 7, "POST", "/api/notes", body, "")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Note domain.Note `json:"note"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Note.ID)
	assert.Equal(t, uint(7), resp.Note.AuthorID)
}

func TestNoteCreateRejectsMissingContent(t *testing.T) {
	noteRepo := new(mocks.NoteRepository)

	handler := NewNoteHandler(service.NewNoteService(noteRepo, nil))
	c, w := newNoteContext(t, 7, "POST", "/api/notes", []byte(`{"title":"Plan"}`), "")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	noteRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestShareCreateDuplicateGets409(t *testing.T) {
	noteRepo := new(mocks.NoteRepository)
	userRepo := new(mocks.UserRepository)
	shareRepo := new(mocks.ShareRepository)

	note := &domain.Note{ID: "note-1", Title: "Plan", Content: "body", AuthorID: 7}
	sharee := &domain.User{ID: 8, Email: "friend@example.com"}
	noteRepo.On("FindByID", mock.Anything, "note-1").Return(note, nil)
	userRepo.On("FindByEmail", mock.Anything, "friend@example.com").Return(sharee, nil)
	shareRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Share")).Return(repository.ErrDuplicateEntry)

	handler := NewShareHandler(service.NewShareService(noteRepo, userRepo, shareRepo, nil, nil))
	body, _ := json.Marshal(ShareRequest{Email: "friend@example.com"})
	c, w := newNoteContext(t, 7, "POST", "/api/notes/note-1/share", body, "note-1")

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestShareCreateUnknownEmailGets404(t *testing.T) {
	noteRepo := new(mocks.NoteRepository)
	userRepo := new(mocks.UserRepository)
	shareRepo := new(mocks.ShareRepository)

	note := &domain.Note{ID: "note-1", Title: "Plan", Content: "body", AuthorID: 7}
	noteRepo.On("FindByID", mock.Anything, "note-1").Return(note, nil)
	userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	handler := NewShareHandler(service.NewShareService(noteRepo, userRepo, shareRepo, nil, nil))
	body, _ := json.Marshal(ShareRequest{Email: "ghost@example.com"})
	c, w := newNoteContext(t, 7, "POST", "/api/notes/note-1/share", body, "note-1")

	handler.Create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	shareRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
