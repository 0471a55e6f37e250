// Package content содержит общие для обработчиков каталога правила
// преобразования ошибок TMDB в HTTP-ответы.
package content

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-gateway/internal/http/response"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/tmdb"
)

// Сообщения об ошибках входных данных каталога.
const (
	MsgInvalidCategory = "Invalid category type"
	MsgInvalidPage     = "Invalid page number"
)

// UpstreamError тело ответа, когда TMDB ответил ошибкой.
// Тело ответа TMDB клиенту не передаётся.
type UpstreamError struct {
	Message        string `json:"message" example:"TMDB API Error"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty" example:"503"`
}

// WriteError отвечает клиенту по ошибке каталога.
//
// Если passStatus выставлен, ответ TMDB с кодом вне 2xx сообщается как 502
// с кодом TMDB в теле. Иначе такие ошибки отдаются как 500.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, passStatus bool) {
	var statusErr *tmdb.StatusError

	switch {
	case errors.Is(err, tmdb.ErrInvalidCategory):
		response.JSONError(w, r, http.StatusBadRequest, MsgInvalidCategory)
	case errors.Is(err, tmdb.ErrInvalidPage):
		response.JSONError(w, r, http.StatusBadRequest, MsgInvalidPage)
	case errors.Is(err, tmdb.ErrInvalidID):
		response.JSONError(w, r, http.StatusBadRequest, response.MsgInvalidMovieID)
	case errors.Is(err, tmdb.ErrTimeout):
		log.Warn("tmdb request timed out", sl.Err(err))
		response.JSONError(w, r, http.StatusGatewayTimeout, response.MsgGatewayTimeout)
	case errors.As(err, &statusErr) && passStatus:
		log.Error("tmdb returned error status", slog.Int("status", statusErr.StatusCode), sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, UpstreamError{
			Message:        response.MsgUpstreamError,
			UpstreamStatus: statusErr.StatusCode,
		})
	default:
		log.Error("tmdb request failed", sl.Err(err))
		response.JSONError(w, r, http.StatusInternalServerError, response.MsgInternalError)
	}
}
