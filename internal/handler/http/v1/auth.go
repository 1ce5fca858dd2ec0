package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/auth"
)

const identityContextKey = "caller_identity"

// AuthMiddleware - middleware для аутентификации по bearer-токену.
// Какая реализация Authenticator активна (mock или jwt) - решает конфигурация.
func AuthMiddleware(authenticator auth.Authenticator, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warn("Bearer token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		identity, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).Warn("Invalid bearer token provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication credentials"})
			return
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// IdentityFromContext возвращает личность вызывающего, положенную middleware
func IdentityFromContext(c *gin.Context) (*auth.Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	return identity, ok
}
