package jwt

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin — роль администратора хоста, для которого шлюз не применяется.
const RoleAdmin = "admin"

// CustomClaims описывает данные администратора, хранящиеся в JWT.
type CustomClaims struct {
	Username             string `json:"username"` // Имя администратора
	Role                 string `json:"role"`     // Роль, для обхода шлюза ожидается admin
	jwt.RegisteredClaims                          // Стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// IsAdmin сообщает, принадлежит ли токен администратору.
func (c *CustomClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
