package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/berean-study/trivia-api/internal/domain/entities"
	"github.com/berean-study/trivia-api/internal/domain/notedoc"
	"github.com/berean-study/trivia-api/internal/identity"
	"github.com/berean-study/trivia-api/internal/service"
)

// NotesHandler serves the journaling feature. All routes require a
// signed-in user; notes are scoped to their author.
type NotesHandler struct {
	notes *service.NotesService
}

func NewNotesHandler(notes *service.NotesService) *NotesHandler {
	return &NotesHandler{notes: notes}
}

type noteRequest struct {
	Mode      string                 `json:"mode" binding:"required"`
	Book      string                 `json:"book" binding:"required"`
	Chapter   int                    `json:"chapter" binding:"required"`
	VerseFrom int                    `json:"verse_from"`
	VerseTo   int                    `json:"verse_to"`
	Guided    *entities.GuidedFields `json:"guided"`
	Body      *notedoc.Document      `json:"body"`
}

func (r noteRequest) toInput() service.NoteInput {
	return service.NoteInput{
		Mode:      entities.NoteMode(r.Mode),
		Book:      r.Book,
		Chapter:   r.Chapter,
		VerseFrom: r.VerseFrom,
		VerseTo:   r.VerseTo,
		Guided:    r.Guided,
		Body:      r.Body,
	}
}

// Create handles POST /api/notes.
func (h *NotesHandler) Create(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode, book and chapter are required"})
		return
	}

	user := identity.FromContext(c.Request.Context())

	note, err := h.notes.Create(user.ID, req.toInput())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, note)
}

// List handles GET /api/notes.
func (h *NotesHandler) List(c *gin.Context) {
	user := identity.FromContext(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"notes": h.notes.List(user.ID)})
}

// Get handles GET /api/notes/:id.
func (h *NotesHandler) Get(c *gin.Context) {
	user := identity.FromContext(c.Request.Context())

	note, err := h.notes.Get(user.ID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	c.JSON(http.StatusOK, note)
}

// Update handles PUT /api/notes/:id.
func (h *NotesHandler) Update(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode, book and chapter are required"})
		return
	}

	user := identity.FromContext(c.Request.Context())

	note, err := h.notes.Update(user.ID, c.Param("id"), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, note)
}

// Delete handles DELETE /api/notes/:id.
func (h *NotesHandler) Delete(c *gin.Context) {
	user := identity.FromContext(c.Request.Context())

	if err := h.notes.Delete(user.ID, c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
