// Package main Movie Gateway API
//
// @title           Movie Gateway API
// @version         1.0
// @description     API шлюза для каталога фильмов: учётные записи, прокси TMDB и AI-рекомендации

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /
package main

//go:generate swag init -g cmd/movie-gateway/main.go -d ../../ -o ../../docs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/movie-gateway/internal/app/gateway"
	"github.com/magabrotheeeer/movie-gateway/internal/config"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/logger"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	log.Info("starting movie-gateway", slog.String("env", cfg.Env))
	log.Debug("loaded config", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := gateway.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("movie-gateway stopped gracefully")
}
