package middleware

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Owner tokens let the owner hit owner-only endpoints without re-typing
// their email on every call. They identify, they do not authorize: the
// authoritative check is always the owner-email match in the services.
type OwnerClaims struct {
	GameCode string `json:"game"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "boxpool-dev-secret"
	}
	return []byte(secret)
}

// SignOwnerToken issues the JWT returned by createGame and ownerLogin.
func SignOwnerToken(gameCode, email string) (string, error) {
	claims := OwnerClaims{
		GameCode: gameCode,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// DecodeOwnerToken validates a token string and returns its claims.
func DecodeOwnerToken(tokenString string) (*OwnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OwnerClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*OwnerClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid owner token")
	}
	return claims, nil
}

// RequesterEmail resolves who is calling: the explicit email from the
// request body if given, otherwise the email inside a Bearer owner token.
func RequesterEmail(c *gin.Context, bodyEmail string) string {
	if strings.TrimSpace(bodyEmail) != "" {
		return bodyEmail
	}
	header := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		if claims, err := DecodeOwnerToken(strings.TrimSpace(after)); err == nil {
			return claims.Email
		}
	}
	return ""
}
