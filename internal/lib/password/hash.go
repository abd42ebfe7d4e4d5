// Package password реализует функции для хеширования и проверки паролей участников.
//
// GetHash создает bcrypt-хеш пароля для хранения в снимке участников.
// Matches сравнивает bcrypt-хеш с введённым паролем.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword возвращается при попытке захешировать пустой пароль.
var ErrEmptyPassword = errors.New("password cannot be empty")

// dummyHash используется для проверки пароля несуществующего участника,
// чтобы промах по имени занимал столько же времени, сколько неверный пароль.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("member-gate-dummy-password"), bcrypt.DefaultCost)

// GetHash принимает пароль и возвращает его bcrypt‑хэш с солью.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	if password == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// Matches сообщает, соответствует ли пароль bcrypt‑хэшу.
// Повреждённый хэш считается несовпадением.
func Matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnCompare выполняет сравнение с заранее подготовленным хэшем и всегда возвращает false.
func BurnCompare(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}
