package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/berean-study/trivia-api/internal/credits"
	"github.com/berean-study/trivia-api/internal/domain/entities"
	"github.com/berean-study/trivia-api/internal/identity"
	"github.com/berean-study/trivia-api/internal/repository"
	"github.com/berean-study/trivia-api/internal/service"
)

// QuizHandler serves the book list and the quiz session lifecycle.
type QuizHandler struct {
	quiz   *service.QuizService
	logger *zap.Logger
}

func NewQuizHandler(quiz *service.QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{quiz: quiz, logger: logger}
}

// Books handles GET /api/books.
func (h *QuizHandler) Books(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"books": h.quiz.Books()})
}

// StartSession handles POST /api/books/:book/sessions.
func (h *QuizHandler) StartSession(c *gin.Context) {
	user := identity.FromContext(c.Request.Context())

	sess, err := h.quiz.Start(c.Request.Context(), user, c.Param("book"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown book"})
		case errors.Is(err, credits.ErrDenied):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "no credits available"})
		default:
			h.logger.Error("start session failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		}
		return
	}

	c.JSON(http.StatusCreated, newSessionView(sess))
}

// GetSession handles GET /api/sessions/:id.
func (h *QuizHandler) GetSession(c *gin.Context) {
	sess, err := h.quiz.Session(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, newSessionView(sess))
}

type submitRequest struct {
	Label string `json:"label" binding:"required"`
}

// SubmitAnswer handles POST /api/sessions/:id/answers.
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label is required"})
		return
	}

	user := identity.FromContext(c.Request.Context())

	result, err := h.quiz.Submit(c.Request.Context(), user, c.Param("id"), req.Label)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, entities.ErrUnknownOption):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown option label"})
		case errors.Is(err, entities.ErrAlreadyAnswered), errors.Is(err, entities.ErrQuizFinished):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("submit answer failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit answer"})
		}
		return
	}

	c.JSON(http.StatusOK, newAnswerView(result))
}

// Advance handles POST /api/sessions/:id/advance.
func (h *QuizHandler) Advance(c *gin.Context) {
	result, err := h.quiz.Advance(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, entities.ErrNotRevealed), errors.Is(err, entities.ErrQuizFinished):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("advance failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not advance"})
		}
		return
	}

	if result.Finished {
		c.JSON(http.StatusOK, summaryView{
			Finished:      true,
			CorrectCount:  result.CorrectCount,
			Total:         result.Total,
			Encouragement: result.Encouragement,
		})
		return
	}

	sess, err := h.quiz.Session(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, newSessionView(sess))
}

// Verse handles GET /api/sessions/:id/verse, the enrichment poll.
func (h *QuizHandler) Verse(c *gin.Context) {
	text, pending, err := h.quiz.Verse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verse_text": text, "pending": pending})
}

// MyStats handles GET /api/me/stats.
func (h *QuizHandler) MyStats(c *gin.Context) {
	user := identity.FromContext(c.Request.Context())

	stats, err := h.quiz.Stats(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("stats read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions_answered": stats.QuestionsAnswered})
}
