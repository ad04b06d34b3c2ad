package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig wires the handlers and middleware into the route tree.
type RouterConfig struct {
	Quiz           *QuizHandler
	Notes          *NotesHandler
	Auth           *AuthMiddleware
	AllowedOrigins []string
}

// NewRouter builds the gin engine with all application routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(cfg.Auth.Attach())
	{
		api.GET("/books", cfg.Quiz.Books)
		api.POST("/books/:book/sessions", cfg.Quiz.StartSession)
		api.GET("/sessions/:id", cfg.Quiz.GetSession)
		api.POST("/sessions/:id/answers", cfg.Quiz.SubmitAnswer)
		api.POST("/sessions/:id/advance", cfg.Quiz.Advance)
		api.GET("/sessions/:id/verse", cfg.Quiz.Verse)
	}

	me := api.Group("/")
	me.Use(RequireUser())
	{
		me.GET("/me/stats", cfg.Quiz.MyStats)

		me.POST("/notes", cfg.Notes.Create)
		me.GET("/notes", cfg.Notes.List)
		me.GET("/notes/:id", cfg.Notes.Get)
		me.PUT("/notes/:id", cfg.Notes.Update)
		me.DELETE("/notes/:id", cfg.Notes.Delete)
	}

	return r
}
