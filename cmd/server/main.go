package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/berean-study/trivia-api/internal/bibleapi"
	"github.com/berean-study/trivia-api/internal/config"
	"github.com/berean-study/trivia-api/internal/credits"
	"github.com/berean-study/trivia-api/internal/delivery/httpapi"
	"github.com/berean-study/trivia-api/internal/identity"
	"github.com/berean-study/trivia-api/internal/infra/postgres"
	"github.com/berean-study/trivia-api/internal/logger"
	"github.com/berean-study/trivia-api/internal/repository"
	"github.com/berean-study/trivia-api/internal/service"
	"github.com/berean-study/trivia-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repositories.
	questionRepo, err := repository.NewQuestionRepository(cfg.BanksDir)
	if err != nil {
		zapLogger.Fatal("load question banks", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		zapLogger.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	progressRepo := repository.NewProgressRepository(pool)

	// In-memory stores for live sessions and notes.
	sessionStore := storage.NewSessionStorage(cfg.Quiz.SessionTTL)
	go sessionStore.Run(ctx, cfg.Quiz.SessionTTL/4)
	noteStore := storage.NewNoteStorage()

	// External collaborators.
	verseClient := bibleapi.NewClient(cfg.Bible.BaseURL, cfg.Bible.Timeout)
	creditGate := credits.NewGate(cfg.Credits.Endpoint, cfg.Credits.Timeout)

	// Services.
	quizService := service.NewQuizService(
		questionRepo,
		progressRepo,
		sessionStore,
		verseClient,
		creditGate,
		service.NewSelector(),
		zapLogger,
		cfg.Quiz.SessionSize,
		cfg.Quiz.EffectTimeout,
	)
	notesService := service.NewNotesService(noteStore)

	// HTTP delivery.
	var parser *identity.Parser
	if cfg.Auth.JWTSecret != "" {
		parser = identity.NewParser(cfg.Auth.JWTSecret)
	} else {
		zapLogger.Warn("JWT_SECRET not set, all requests are anonymous")
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Quiz:           httpapi.NewQuizHandler(quizService, zapLogger),
		Notes:          httpapi.NewNotesHandler(notesService),
		Auth:           httpapi.NewAuthMiddleware(parser, zapLogger),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("http server started", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("http server shutdown", zap.Error(err))
	}
}
