// Package logger создаёт корневой slog.Logger в зависимости от окружения.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/magabrotheeeer/movie-gateway/internal/config"
)

// New возвращает логгер для окружения env, пишущий в stdout.
func New(env string) *slog.Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter возвращает логгер, пишущий в w. В production используется
// JSON-формат с уровнем Info, в остальных окружениях текстовый с Debug.
func NewWithWriter(env string, w io.Writer) *slog.Logger {
	switch env {
	case config.EnvProduction:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
