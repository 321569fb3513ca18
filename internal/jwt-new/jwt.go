package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linemk/maizy-store/internal/domain/models"
)

// NewToken генерирует JWT-токен для указанного пользователя с заданным временем жизни.
// Формат claims совпадает с тем, что выпускает внешний сервис авторизации.
func NewToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	role := user.Role
	if role == "" {
		role = models.RoleCustomer
	}
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", user.ID),
		"email":    user.Email,
		"username": user.Username,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
