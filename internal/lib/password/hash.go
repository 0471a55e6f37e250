// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Hash создает bcrypt-хеш пароля для безопасного хранения.
// Verify сравнивает bcrypt-хеш с введённым паролем и никогда не возвращает ошибку.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost стоимость bcrypt, равная рабочему фактору 10.
const Cost = 10

// MaxBytes предельная длина пароля в байтах, которую принимает bcrypt.
const MaxBytes = 72

// Hash принимает пароль пользователя и возвращает его bcrypt‑хэш.
//
// Пароли длиннее 72 байт bcrypt не принимает, это возвращается как ошибка.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// Verify сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает false при несовпадении и при повреждённом хэше.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
