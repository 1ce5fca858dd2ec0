package auth

import (
	"context"
	"fmt"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

// Identity - личность вызывающего, полученная из bearer-токена
type Identity struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Authenticator - контракт проверки bearer-токена.
// Ядро сервиса не зависит от того, какая реализация активна.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// MockAuthenticator принимает единственный заранее заданный токен
// и возвращает фиксированную личность. Используется в разработке и тестах.
type MockAuthenticator struct {
	Token string
}

func NewMockAuthenticator(token string) *MockAuthenticator {
	return &MockAuthenticator{Token: token}
}

func (a *MockAuthenticator) Authenticate(_ context.Context, token string) (*Identity, error) {
	if token != a.Token {
		return nil, fmt.Errorf("invalid authentication credentials: %w", e.ErrUnauthorized)
	}
	return &Identity{UserID: "12345", Role: "reporter"}, nil
}
