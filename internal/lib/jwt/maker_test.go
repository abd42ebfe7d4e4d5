package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "admin-cookie-secret"

func TestMaker_AdminRoundTrip(t *testing.T) {
	maker := NewJWTMaker(testSecret, time.Hour)

	token, err := maker.GenerateToken("editor", RoleAdmin)
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)
	assert.True(t, claims.IsAdmin())
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestMaker_RoleDecidesAdmin(t *testing.T) {
	maker := NewJWTMaker(testSecret, time.Hour)

	for role, want := range map[string]bool{
		RoleAdmin: true,
		"Admin":   false,
		"editor":  false,
		"":        false,
	} {
		token, err := maker.GenerateToken("someone", role)
		require.NoError(t, err)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, want, claims.IsAdmin(), "role %q", role)
	}
}

// signed подписывает claims произвольным методом и ключом.
func signed(t *testing.T, method jwt.SigningMethod, key any, claims CustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func adminClaims(expires time.Time) CustomClaims {
	return CustomClaims{
		Username: "intruder",
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestMaker_RejectsForgedAdminTokens(t *testing.T) {
	maker := NewJWTMaker(testSecret, time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty cookie", ""},
		{"garbage", "not-a-jwt"},
		{"foreign key", signed(t, jwt.SigningMethodHS256, []byte("someone-else"), adminClaims(future))},
		{"alg none", signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, adminClaims(future))},
		{"HS512 with the right key", signed(t, jwt.SigningMethodHS512, []byte(testSecret), adminClaims(future))},
		{"expired admin", signed(t, jwt.SigningMethodHS256, []byte(testSecret), adminClaims(time.Now().Add(-time.Minute)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
