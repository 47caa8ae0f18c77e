package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
	"github.com/noah-isme/classdy-api/pkg/response"
)

// ContextOwnerKey is the gin context key storing validated token claims.
const ContextOwnerKey = "owner"

// TokenValidator checks bearer tokens.
type TokenValidator interface {
	Enabled() bool
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT requires a valid bearer token. With authentication disabled every
// request passes through untouched.
func JWT(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil || !auth.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(ContextOwnerKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by JWT, if any.
func ClaimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextOwnerKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
