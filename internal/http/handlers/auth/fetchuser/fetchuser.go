// Package fetchuser реализует HTTP-обработчик получения текущего пользователя по cookie сессии.
package fetchuser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-gateway/internal/http/response"
	"github.com/magabrotheeeer/movie-gateway/internal/http/session"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
	services "github.com/magabrotheeeer/movie-gateway/internal/services/auth"
)

// Сообщения ответов.
const (
	MsgNoToken      = "No token provided."
	MsgUserNotFound = "User not found."
	MsgInvalidToken = "Invalid token."
)

// Service определяет пользователя по токену.
type Service interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Handler обрабатывает запросы текущего пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions *session.Manager
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions *session.Manager) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает пользователя, которому выдан токен из cookie token.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.UserResponse "Пользователь"
// @Failure 400 {object} response.Message "Токен недействителен или пользователь не найден"
// @Failure 401 {object} response.Message "Нет cookie token"
// @Failure 500 {object} response.Message "Внутренняя ошибка сервера"
// @Router /api/fetch-user [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.fetchuser"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := h.sessions.Token(r)
	if !ok {
		response.JSONError(w, r, http.StatusUnauthorized, MsgNoToken)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), token)
	switch {
	case errors.Is(err, services.ErrInvalidToken):
		log.Info("invalid session token", sl.Err(err))
		response.JSONError(w, r, http.StatusBadRequest, MsgInvalidToken)
		return
	case errors.Is(err, services.ErrUserNotFound):
		log.Info("session user no longer exists")
		response.JSONError(w, r, http.StatusBadRequest, MsgUserNotFound)
		return
	case err != nil:
		log.Error("failed to fetch user", sl.Err(err))
		response.JSONError(w, r, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	render.JSON(w, r, response.UserResponse{User: user})
}
