// Package signup реализует HTTP-обработчик регистрации пользователя.
//
// Обработчик проверяет обязательные поля, делегирует регистрацию сервису
// и при успехе выставляет cookie сессии.
package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/movie-gateway/internal/http/response"
	"github.com/magabrotheeeer/movie-gateway/internal/http/session"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/password"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
	services "github.com/magabrotheeeer/movie-gateway/internal/services/auth"
)

// Сообщения ответов регистрации.
const (
	MsgCreated       = "user created successfully"
	MsgEmailTaken    = "user already exist"
	MsgUsernameTaken = "Username is taken try another one"
	MsgPasswordLong  = "Password is too long"
)

// Request структура входных данных для регистрации.
type Request struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	sessions *session.Manager    // Выдача cookie сессии
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions *session.Manager) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя, выставляет cookie token и возвращает пользователя без хэша пароля.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} response.UserResponse "Пользователь создан"
// @Failure 400 {object} response.Message "Не заполнены поля или пользователь уже существует"
// @Failure 500 {object} response.Message "Внутренняя ошибка сервера"
// @Router /api/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	// Ограничение bcrypt считается в байтах, а не в символах.
	if len(req.Password) > password.MaxBytes {
		log.Info("password exceeds bcrypt limit", slog.Int("bytes", len(req.Password)))
		response.JSONError(w, r, http.StatusBadRequest, MsgPasswordLong)
		return
	}

	user, token, err := h.service.Signup(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		log.Info("email already registered")
		response.JSONError(w, r, http.StatusBadRequest, MsgEmailTaken)
		return
	case errors.Is(err, services.ErrUsernameTaken):
		log.Info("username already taken", slog.String("username", req.Username))
		response.JSONError(w, r, http.StatusBadRequest, MsgUsernameTaken)
		return
	case err != nil:
		log.Error("signup failed", sl.Err(err))
		response.JSONError(w, r, http.StatusInternalServerError, response.MsgInternalError)
		return
	}

	h.sessions.Set(w, token)
	log.Info("user created", slog.String("user_id", user.UUID))
	render.JSON(w, r, response.UserResponse{
		Message: MsgCreated,
		User:    user,
	})
}
