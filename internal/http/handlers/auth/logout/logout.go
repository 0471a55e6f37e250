// Package logout реализует HTTP-обработчик выхода.
//
// Cookie удаляется безусловно, наличие сессии не проверяется. Сам токен
// остаётся криптографически валидным до истечения срока.
package logout

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-gateway/internal/http/response"
	"github.com/magabrotheeeer/movie-gateway/internal/http/session"
)

// MsgLoggedOut сообщение об успешном выходе.
const MsgLoggedOut = "Logged Out successfully."

// Handler очищает cookie сессии.
type Handler struct {
	sessions *session.Manager
}

// New создает новый экземпляр Handler.
func New(sessions *session.Manager) *Handler {
	return &Handler{
		sessions: sessions,
	}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Удаляет cookie token.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Message "Cookie удалена"
// @Router /api/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	render.JSON(w, r, response.Message{Message: MsgLoggedOut})
}
