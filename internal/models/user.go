// Package models содержит доменные модели шлюза: учётную запись пользователя,
// нормализованную выдачу каталога и события пользователей.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Хэш пароля никогда не сериализуется в JSON-ответы.
type User struct {
	UUID         string    `json:"_id"`      // Уникальный идентификатор пользователя
	Username     string    `json:"username"` // Имя пользователя (уникальное)
	Email        string    `json:"email"`    // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`        // Хэш пароля пользователя
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRegistered событие о регистрации нового пользователя.
type UserRegistered struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}
