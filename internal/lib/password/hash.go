// Package password реализует функции для безопасного хеширования и проверки
// паролей и PIN-кодов. Хэши bcrypt хранятся в базе, исходные значения нигде
// не сохраняются и не передаются.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает пароль или PIN пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым значением.
// Возвращает nil, если значение соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, external string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(external)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
