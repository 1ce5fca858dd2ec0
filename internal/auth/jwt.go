package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

// Claims - JWT-клеймы access-токена
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthenticator проверяет HS256-подписанные токены
type JWTAuthenticator struct {
	signingKey []byte
}

func NewJWTAuthenticator(signingKey string) *JWTAuthenticator {
	return &JWTAuthenticator{signingKey: []byte(signingKey)}
}

func (a *JWTAuthenticator) Authenticate(_ context.Context, tokenString string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return a.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", e.ErrUnauthorized)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", e.ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token claims: %w", e.ErrUnauthorized)
	}

	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// GenerateToken выпускает подписанный токен для указанной личности.
// Используется в тестах и вспомогательных утилитах.
func (a *JWTAuthenticator) GenerateToken(identity Identity, expiresAt jwt.NumericDate) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: identity.UserID,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: &expiresAt,
		},
	})
	signedToken, err := newToken.SignedString(a.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}
