package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/movie-gateway/internal/cache"
	"github.com/magabrotheeeer/movie-gateway/internal/config"
	"github.com/magabrotheeeer/movie-gateway/internal/genai"
	"github.com/magabrotheeeer/movie-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-gateway/internal/http/session"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/metrics"
	"github.com/magabrotheeeer/movie-gateway/internal/migrations"
	authservice "github.com/magabrotheeeer/movie-gateway/internal/services/auth"
	"github.com/magabrotheeeer/movie-gateway/internal/services/catalog"
	"github.com/magabrotheeeer/movie-gateway/internal/storage/repository"
	"github.com/magabrotheeeer/movie-gateway/internal/tmdb"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер шлюза вместе с ресурсами, которые нужно закрыть при остановке.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	closers []io.Closer
}

// New подключает хранилище, применяет миграции и собирает маршруты.
// Недоступная база данных считается фатальной ошибкой старта.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "gateway.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	categoryCache, err := app.newCategoryCache(ctx, cfg)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tmdbClient := tmdb.New(tmdb.Options{
		BaseURL:     cfg.TMDB.BaseURL,
		Token:       cfg.TMDB.Token,
		Timeout:     cfg.TMDB.Timeout,
		MaxAttempts: cfg.MaxAttempts,
		BaseBackoff: cfg.BaseBackoff,
		RPS:         cfg.RPS,
		Metrics:     m,
	}, logger)
	if !tmdbClient.HasCredential() {
		logger.Warn("TMDB token is not configured, content routes will fail")
	}

	generator := genai.New(genai.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.GenAI.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.GenAI.Timeout,
		Metrics: m,
	}, logger)
	if !generator.HasCredential() {
		logger.Warn("generative provider key is missing or a placeholder, AI route will fail")
	}

	var authOpts []authservice.Option
	if publisher := app.newPublisher(cfg); publisher != nil {
		authOpts = append(authOpts, authservice.WithPublisher(publisher))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:         logger,
		Auth:           authservice.NewAuthService(db, jwtMaker, logger, authOpts...),
		Catalog:        catalog.New(tmdbClient, categoryCache, m, logger),
		Generator:      generator,
		DB:             db,
		Sessions:       newSessions(cfg.IsProduction(), jwtMaker),
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AllowedOrigins: cfg.AllowedOrigins,
		AIRateLimiter:  middlewarectx.NewIPLimiter(cfg.RatePerMinute),

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// newSessions выдаёт cookie на тот же срок, что и токен внутри неё.
func newSessions(production bool, tokens *jwt.MakerImpl) *session.Manager {
	m := session.NewManager(production)
	m.MaxAge = tokens.TTL()
	return m
}

// writeTimeout не даёт серверу оборвать ответ раньше, чем истечёт таймаут вызова провайдера.
func writeTimeout(cfg *config.Config) time.Duration {
	upstream := max(cfg.TMDB.Timeout, cfg.GenAI.Timeout) + 5*time.Second
	return max(cfg.TimeoutHTTP, upstream)
}

func (a *App) newCategoryCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.CategoryCache.Backend != "redis" {
		return cache.NewMemory(cfg.Freshness, cache.WithMaxEntries(cfg.MaxEntries)), nil
	}
	redisCache, err := cache.InitRedis(ctx, cfg.RedisConnection, cfg.Freshness, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, redisCache)
	return redisCache, nil
}

// newPublisher подключается к RabbitMQ, если он настроен. Недоступный брокер
// не мешает старту: регистрация работает и без событий.
func (a *App) newPublisher(cfg *config.Config) *rabbitmq.Publisher {
	if cfg.RabbitMQURL == "" {
		return nil
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		a.logger.Warn("rabbitmq is unavailable, user events are disabled", sl.Err(err))
		return nil
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQExchange)
	if err != nil {
		a.logger.Warn("failed to set up rabbitmq channel, user events are disabled", sl.Err(err))
		_ = conn.Close()
		return nil
	}
	a.closers = append(a.closers, amqpCloser{ch: ch, conn: conn})
	return rabbitmq.NewPublisher(ch, cfg.RabbitMQExchange)
}

type amqpCloser struct {
	ch   *amqp.Channel
	conn *amqp.Connection
}

func (c amqpCloser) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
