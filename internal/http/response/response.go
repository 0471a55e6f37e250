// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Любая ошибка возвращается
// клиенту как объект с единственным полем message.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/movie-gateway/internal/models"
)

// Сообщения, которые фронтенд показывает пользователю без изменений.
const (
	MsgFieldsRequired  = "All fields are required!"
	MsgInternalError   = "Internal Server Error"
	MsgGatewayTimeout  = "Gateway Timeout - TMDB too slow"
	MsgUpstreamError   = "TMDB API Error"
	MsgInvalidMovieID  = "Invalid movie id"
	MsgTooManyRequests = "Too many requests"
)

// Message описывает стандартное тело ответа с сообщением.
type Message struct {
	Message string `json:"message" example:"Internal Server Error"`
}

// UserResponse тело ответа с данными пользователя.
type UserResponse struct {
	Message string       `json:"message,omitempty" example:"Logged In successfully"`
	User    *models.User `json:"user"`
}

// Error возвращает тело ответа с ошибкой.
func Error(msg string) Message {
	return Message{Message: msg}
}

// JSONError пишет тело с сообщением и статусом code.
func JSONError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	render.Status(r, code)
	render.JSON(w, r, Error(msg))
}

// ValidationError формирует сообщение на основе ошибок валидации.
// Отсутствие обязательного поля сообщается общим текстом, остальные нарушения
// перечисляются через запятую.
func ValidationError(errs validator.ValidationErrors) Message {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			return Error(MsgFieldsRequired)
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}
