package tmdb

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCategory неизвестный ключ категории, запрос к TMDB не выполнялся.
	ErrInvalidCategory = errors.New("tmdb: invalid category")
	// ErrInvalidID идентификатор фильма не является положительным числом.
	ErrInvalidID = errors.New("tmdb: invalid movie id")
	// ErrInvalidPage номер страницы вне допустимого диапазона.
	ErrInvalidPage = errors.New("tmdb: invalid page")
	// ErrTimeout вызов не уложился в отведённое время.
	ErrTimeout = errors.New("tmdb: request timed out")
	// ErrUnavailable TMDB недоступен после всех попыток.
	ErrUnavailable = errors.New("tmdb: upstream unavailable")
	// ErrMissingCredential не задан bearer-токен TMDB.
	ErrMissingCredential = errors.New("tmdb: bearer token is not configured")
)

// StatusError TMDB ответил кодом вне диапазона 2xx.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: unexpected status %d", e.StatusCode)
}
