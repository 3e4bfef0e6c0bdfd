package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/response"
)

// RBAC enforces role-based access control for administrator routes.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowedRoles := make(map[models.PersonRole]struct{}, len(allowed))
	for _, a := range allowed {
		allowedRoles[models.PersonRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}
		response.Abort(c, appErrors.ErrForbidden)
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.PersonRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}
