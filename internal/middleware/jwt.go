package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/logger"
	"github.com/noah-isme/horarios-api/pkg/response"
)

// ContextUserKey is the gin context key storing administrator JWT claims.
const ContextUserKey = "currentUser"

type adminTokenValidator interface {
	ValidateToken(token string) (*models.AdminClaims, error)
}

// JWT protects administrator routes by requiring a valid access token.
func JWT(admins adminTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}

		claims, err := admins.ValidateToken(token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.UserIDKey, claims.UserID)
		c.Next()
	}
}

// ClaimsFromContext returns the administrator claims stored by JWT.
func ClaimsFromContext(c *gin.Context) (*models.AdminClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.AdminClaims)
	return claims, ok && claims != nil
}
