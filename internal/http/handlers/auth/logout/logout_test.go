package logout

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-gateway/internal/http/session"
)

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	for _, withCookie := range []bool{true, false} {
		h := New(session.NewManager(true))

		req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		if withCookie {
			req.AddCookie(&http.Cookie{Name: "token", Value: "tok"})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Logged Out successfully."}`, rec.Body.String())

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "token", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)
	}
}
