// Package movie реализует HTTP-обработчики ресурсов одного фильма:
// детали, видео и рекомендации. Ответ TMDB передаётся клиенту без изменений.
package movie

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/content"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
)

// Resource ресурс фильма.
type Resource int

const (
	// Details детали фильма.
	Details Resource = iota
	// Videos трейлеры и ролики.
	Videos
	// Recommendations похожие фильмы.
	Recommendations
)

func (r Resource) String() string {
	switch r {
	case Videos:
		return "videos"
	case Recommendations:
		return "recommendations"
	default:
		return "details"
	}
}

// Service отдаёт ресурсы фильма.
type Service interface {
	Movie(ctx context.Context, id string) (json.RawMessage, error)
	Videos(ctx context.Context, id string) (json.RawMessage, error)
	Recommendations(ctx context.Context, id string) (json.RawMessage, error)
}

// Handler обрабатывает запросы одного ресурса фильма.
type Handler struct {
	log      *slog.Logger
	service  Service
	resource Resource
}

// New создает обработчик ресурса resource.
func New(log *slog.Logger, service Service, resource Resource) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		resource: resource,
	}
}

// ServeHTTP godoc
// @Summary Ресурс фильма
// @Description Детали (/movie/{id}), видео (/movie/{id}/videos) или рекомендации (/movie/{id}/recommendations) в формате TMDB.
// @Tags Content
// @Produce  json
// @Param id path int true "Идентификатор фильма TMDB"
// @Success 200 {object} map[string]any "Ответ TMDB"
// @Failure 400 {object} response.Message "Некорректный идентификатор"
// @Failure 504 {object} response.Message "TMDB не ответил вовремя"
// @Failure 500 {object} response.Message "Ошибка TMDB"
// @Router /api/movie/{id} [get]
// @Router /api/movie/{id}/videos [get]
// @Router /api/movie/{id}/recommendations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.movie"

	id := chi.URLParam(r, "id")
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("resource", h.resource.String()),
		slog.String("movie_id", id),
	)

	var (
		raw json.RawMessage
		err error
	)
	switch h.resource {
	case Videos:
		raw, err = h.service.Videos(r.Context(), id)
	case Recommendations:
		raw, err = h.service.Recommendations(r.Context(), id)
	default:
		raw, err = h.service.Movie(r.Context(), id)
	}
	if err != nil {
		content.WriteError(w, r, log, err, false)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		log.Debug("failed to write response", sl.Err(err))
	}
}
