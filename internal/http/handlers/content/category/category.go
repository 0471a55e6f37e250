// Package category реализует HTTP-обработчик выдачи фильмов по категории.
//
// Страница берётся из кеша, если она свежая, иначе запрашивается у TMDB.
package category

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/content"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
	"github.com/magabrotheeeer/movie-gateway/internal/services/catalog"
	"github.com/magabrotheeeer/movie-gateway/internal/tmdb"
)

// Service отдаёт страницу категории.
type Service interface {
	Category(ctx context.Context, category string, page int) (*models.Listing, error)
}

// Handler обрабатывает запросы категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Фильмы по категории
// @Tags Content
// @Produce  json
// @Param type path string true "Категория" Enums(movies, tv, anime, popular, upcoming, top_rated, now_playing)
// @Param page query int false "Номер страницы, 1..500" default(1)
// @Success 200 {object} models.Listing "Страница выдачи"
// @Failure 400 {object} response.Message "Неизвестная категория или страница"
// @Failure 502 {object} content.UpstreamError "TMDB ответил ошибкой"
// @Failure 504 {object} response.Message "TMDB не ответил вовремя"
// @Failure 500 {object} response.Message "TMDB недоступен"
// @Router /api/category/{type} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.category"

	kind := chi.URLParam(r, "type")
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("category", kind),
	)

	if _, err := tmdb.ParseCategory(kind); err != nil {
		log.Info("unknown category", slog.Any("supported", tmdb.Categories()))
		content.WriteError(w, r, log, err, true)
		return
	}
	page, err := catalog.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		content.WriteError(w, r, log, err, true)
		return
	}

	listing, err := h.service.Category(r.Context(), kind, page)
	if err != nil {
		content.WriteError(w, r, log, err, true)
		return
	}

	render.JSON(w, r, listing)
}
