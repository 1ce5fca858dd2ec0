package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

func TestMockAuthenticator(t *testing.T) {
	authenticator := NewMockAuthenticator("fake-jwt-token")
	ctx := context.Background()

	// Верный токен дает фиксированную личность
	identity, err := authenticator.Authenticate(ctx, "fake-jwt-token")
	require.NoError(t, err)
	assert.Equal(t, "12345", identity.UserID)
	assert.Equal(t, "reporter", identity.Role)

	// Любой другой токен отклоняется
	_, err = authenticator.Authenticate(ctx, "other-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestJWTAuthenticator_RoundTrip(t *testing.T) {
	authenticator := NewJWTAuthenticator("test-signing-key")
	ctx := context.Background()

	token, err := authenticator.GenerateToken(
		Identity{UserID: "user123", Role: "reporter"},
		*jwt.NewNumericDate(time.Now().Add(time.Hour)),
	)
	require.NoError(t, err)

	identity, err := authenticator.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user123", identity.UserID)
	assert.Equal(t, "reporter", identity.Role)
}

func TestJWTAuthenticator_Expired(t *testing.T) {
	authenticator := NewJWTAuthenticator("test-signing-key")

	token, err := authenticator.GenerateToken(
		Identity{UserID: "user123", Role: "reporter"},
		*jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	)
	require.NoError(t, err)

	_, err = authenticator.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestJWTAuthenticator_WrongKey(t *testing.T) {
	issuer := NewJWTAuthenticator("key-one")
	verifier := NewJWTAuthenticator("key-two")

	token, err := issuer.GenerateToken(
		Identity{UserID: "user123", Role: "reporter"},
		*jwt.NewNumericDate(time.Now().Add(time.Hour)),
	)
	require.NoError(t, err)

	_, err = verifier.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}
