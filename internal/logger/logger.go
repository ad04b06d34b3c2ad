package logger

import (
	"go.uber.org/zap"

	"github.com/berean-study/trivia-api/internal/config"
)

// New builds the process logger: JSON output in production, console output
// everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
