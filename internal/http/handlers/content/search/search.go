// Package search реализует HTTP-обработчик текстового поиска фильмов.
package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-gateway/internal/http/handlers/content"
	"github.com/magabrotheeeer/movie-gateway/internal/http/response"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
)

// MsgQueryRequired сообщение при пустом запросе.
const MsgQueryRequired = "Search Query is required"

// Response тело ответа поиска.
type Response struct {
	Content []json.RawMessage `json:"content" swaggertype:"array,object"`
}

// Service выполняет поиск.
type Service interface {
	Search(ctx context.Context, query string) (*models.Listing, error)
}

// Handler обрабатывает запросы поиска.
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
// @Summary Поиск фильмов
// @Tags Content
// @Produce  json
// @Param q query string true "Поисковый запрос"
// @Success 200 {object} Response "Первая страница результатов"
// @Failure 400 {object} response.Message "Пустой запрос"
// @Failure 504 {object} response.Message "TMDB не ответил вовремя"
// @Failure 500 {object} response.Message "Ошибка TMDB"
// @Router /api/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.search"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.JSONError(w, r, http.StatusBadRequest, MsgQueryRequired)
		return
	}

	listing, err := h.service.Search(r.Context(), query)
	if err != nil {
		content.WriteError(w, r, log, err, false)
		return
	}

	render.JSON(w, r, Response{Content: listing.Content})
}
