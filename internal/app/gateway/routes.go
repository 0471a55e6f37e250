// Package gateway собирает зависимости шлюза и регистрирует его маршруты.
package gateway

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/auth/fetchuser"
	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/content/category"
	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/content/movie"
	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/content/search"
	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/health"
	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/recommendation"
	"github.com/magabrotheeeer/movie-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-gateway/internal/http/session"
	"github.com/magabrotheeeer/movie-gateway/internal/metrics"

	// Регистрация спецификации для /docs.
	_ "github.com/magabrotheeeer/movie-gateway/docs"
)

// AuthService операции учётных записей, нужные обработчикам.
type AuthService interface {
	signup.Service
	login.Service
	fetchuser.Service
}

// CatalogService операции каталога, нужные обработчикам.
type CatalogService interface {
	search.Service
	movie.Service
	category.Service
}

// Deps зависимости маршрутов.
type Deps struct {
	Logger         *slog.Logger
	Auth           AuthService
	Catalog        CatalogService
	Generator      recommendation.Generator
	DB             health.Pinger
	Sessions       *session.Manager
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	AllowedOrigins []string
	AIRateLimiter  *middlewarectx.IPLimiter
	// TrustProxyHeaders берёт адрес клиента из заголовков прокси.
	TrustProxyHeaders bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(middleware.RequestID)
	if d.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORS(d.AllowedOrigins),
		middlewarectx.MetricsMiddleware(d.Metrics),
	)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "Movie gateway API is running")
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", signup.New(logger, d.Auth, d.Sessions).ServeHTTP)
		r.Post("/login", login.New(logger, d.Auth, d.Sessions).ServeHTTP)
		r.Get("/fetch-user", fetchuser.New(logger, d.Auth, d.Sessions).ServeHTTP)
		r.Post("/logout", logout.New(d.Sessions).ServeHTTP)

		r.Get("/search", search.New(logger, d.Catalog).ServeHTTP)
		r.Get("/movie/{id}", movie.New(logger, d.Catalog, movie.Details).ServeHTTP)
		r.Get("/movie/{id}/videos", movie.New(logger, d.Catalog, movie.Videos).ServeHTTP)
		r.Get("/movie/{id}/recommendations", movie.New(logger, d.Catalog, movie.Recommendations).ServeHTTP)
		r.Get("/category/{type}", category.New(logger, d.Catalog).ServeHTTP)

		ai := recommendation.New(logger, d.Generator)
		if d.AIRateLimiter != nil {
			r.With(middlewarectx.RateLimitMiddleware(logger, d.AIRateLimiter)).Post("/ai-recommendation", ai.ServeHTTP)
		} else {
			r.Post("/ai-recommendation", ai.ServeHTTP)
		}
	})

	r.Get("/healthz", health.New(logger, d.DB).ServeHTTP)
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
