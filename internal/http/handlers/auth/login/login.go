// Package login реализует HTTP-обработчик входа пользователя.
//
// Логином может служить имя пользователя или почта. При успехе выставляется
// cookie сессии, в ответе возвращается пользователь без хэша пароля.
package login

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

// Сообщения ответов входа.
const (
	MsgLoggedIn           = "Logged In successfully"
	MsgInvalidCredentials = "Invalid Credentials"
	MsgInvalidPassword    = "Invalid Password"
)

// Request структура входных данных для авторизации.
//
// Username может содержать и почту. Поле Email принимается как запасной вариант.
type Request struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r Request) identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, identifier, password string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по имени или почте и паролю, выставляет cookie token.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.UserResponse "Успешная авторизация"
// @Failure 400 {object} response.Message "Неверные учетные данные"
// @Failure 500 {object} response.Message "Внутренняя ошибка сервера"
// @Router /api/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.JSONError(w, r, http.StatusBadRequest, response.MsgFieldsRequired)
		return
	}
	if req.identifier() == "" || req.Password == "" {
		response.JSONError(w, r, http.StatusBadRequest, response.MsgFieldsRequired)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.identifier(), req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		log.Info("unknown login")
		response.JSONError(w, r, http.StatusBadRequest, MsgInvalidCredentials)
		return
	case errors.Is(err, services.ErrInvalidPassword):
		log.Info("wrong password")
		response.JSONError(w, r, http.StatusBadRequest, MsgInvalidPassword)
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		response.JSONError(w, r, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	h.sessions.Set(w, token)
	log.Info("login success", slog.String("user_id", user.UUID))
	render.JSON(w, r, response.UserResponse{
		Message: MsgLoggedIn,
		User:    user,
	})
}
