package middlewarectx

import (
	"net/http"

	"github.com/magabrotheeeer/member-gate/internal/lib/jwt"
)

// AdminChecker распознаёт администратора сайта. Для администратора шлюз не применяется.
type AdminChecker interface {
	IsAdmin(r *http.Request) bool
}

// JWTAdminChecker ищет в cookie JWT, выданный сайтом администратору.
type JWTAdminChecker struct {
	maker      jwt.Maker
	cookieName string
}

// NewJWTAdminChecker создает новый экземпляр JWTAdminChecker.
func NewJWTAdminChecker(maker jwt.Maker, cookieName string) *JWTAdminChecker {
	return &JWTAdminChecker{maker: maker, cookieName: cookieName}
}

// IsAdmin сообщает, несёт ли запрос действующий токен с ролью admin.
func (c *JWTAdminChecker) IsAdmin(r *http.Request) bool {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	claims, err := c.maker.ParseToken(cookie.Value)
	if err != nil {
		return false
	}
	return claims.IsAdmin()
}

// NoAdmin никого не считает администратором.
type NoAdmin struct{}

func (NoAdmin) IsAdmin(*http.Request) bool { return false }
