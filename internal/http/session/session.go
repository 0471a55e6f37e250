// Package session управляет cookie с токеном сессии.
//
// В production cookie выдаётся с Secure и SameSite=None, чтобы фронтенд
// на другом домене мог отправлять её с credentials. Локально Secure
// выключен, а SameSite=Lax.
package session

import (
	"net/http"
	"time"
)

const (
	// CookieName имя cookie с токеном.
	CookieName = "token"
	// MaxAge срок жизни cookie, совпадает со сроком жизни токена.
	MaxAge = 7 * 24 * time.Hour
)

// Manager выставляет и очищает cookie сессии.
type Manager struct {
	Name     string
	Path     string
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
}

// NewManager возвращает Manager с политикой, зависящей от окружения.
func NewManager(production bool) *Manager {
	m := &Manager{
		Name:     CookieName,
		Path:     "/",
		MaxAge:   MaxAge,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	if production {
		m.Secure = true
		m.SameSite = http.SameSiteNoneMode
	}
	return m
}

// Set выставляет cookie с токеном.
func (m *Manager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(token, int(m.MaxAge/time.Second), time.Time{}))
}

// Clear удаляет cookie, повторяя атрибуты, с которыми она была выставлена.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1, time.Unix(0, 0)))
}

// Token возвращает токен из cookie запроса.
func (m *Manager) Token(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.Name,
		Value:    value,
		Path:     m.Path,
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: m.SameSite,
	}
}
