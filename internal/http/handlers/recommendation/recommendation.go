// Package recommendation реализует HTTP-обработчик AI-рекомендаций.
//
// Промпт пересылается генеративной модели без изменений, текст ответа
// возвращается в поле recommendation без проверки формата.
package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-gateway/internal/genai"
	"github.com/magabrotheeeer/movie-gateway/internal/http/response"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
)

// Сообщения ответов.
const (
	MsgPromptRequired = "Prompt is required"
	MsgMissingKey     = "Gemini API Key is missing or invalid"
	MsgFailed         = "AI Recommendation Failed"
	MsgTimeout        = "Gateway Timeout - AI provider too slow"
)

// Request тело запроса.
type Request struct {
	Prompt string `json:"prompt"`
}

// Response тело успешного ответа.
type Response struct {
	Recommendation string `json:"recommendation"`
}

// Generator генерирует текст по промпту.
type Generator interface {
	HasCredential() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Handler обрабатывает запросы AI-рекомендаций.
type Handler struct {
	log       *slog.Logger
	generator Generator
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, generator Generator) *Handler {
	return &Handler{
		log:       log,
		generator: generator,
	}
}

// ServeHTTP godoc
// @Summary AI-рекомендация
// @Description Пересылает промпт генеративной модели и возвращает её текст без изменений.
// @Tags AI
// @Accept  json
// @Produce  json
// @Param request body Request true "Промпт"
// @Success 200 {object} Response "Текст модели"
// @Failure 400 {object} response.Message "Пустой промпт"
// @Failure 429 {object} response.Message "Слишком много запросов"
// @Failure 500 {object} response.Message "Нет ключа или ошибка модели"
// @Failure 504 {object} response.Message "Модель не ответила вовремя"
// @Router /api/ai-recommendation [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recommendation"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Prompt == "" {
		response.JSONError(w, r, http.StatusBadRequest, MsgPromptRequired)
		return
	}

	if !h.generator.HasCredential() {
		log.Error("generative provider key is not configured")
		response.JSONError(w, r, http.StatusInternalServerError, MsgMissingKey)
		return
	}

	log.Debug("ai request", slog.Int("prompt_len", len(req.Prompt)))
	text, err := h.generator.Generate(r.Context(), req.Prompt)
	switch {
	case errors.Is(err, genai.ErrTimeout):
		response.JSONError(w, r, http.StatusGatewayTimeout, MsgTimeout)
		return
	case errors.Is(err, genai.ErrMissingCredential):
		response.JSONError(w, r, http.StatusInternalServerError, MsgMissingKey)
		return
	case err != nil:
		log.Error("ai recommendation failed", sl.Err(err))
		response.JSONError(w, r, http.StatusInternalServerError, MsgFailed)
		return
	}

	render.JSON(w, r, Response{Recommendation: text})
}
