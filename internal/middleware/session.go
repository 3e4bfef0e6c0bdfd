package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/logger"
	"github.com/noah-isme/horarios-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the professor session.
const ContextSessionKey = "currentSession"

type sessionValidator interface {
	Validate(ctx context.Context, token string) (*models.Session, error)
}

type portalTokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Session requires a professor session. The signed session cookie is
// preferred; API clients may instead send the portal token as a Bearer
// credential, which is verified on every request.
func Session(sessions sessionValidator, tokens portalTokenVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			session, err := sessions.Validate(c.Request.Context(), cookie)
			if err != nil {
				response.Abort(c, err)
				return
			}
			setSession(c, session)
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "session required"))
			return
		}
		userID, err := tokens.VerifyToken(token)
		if err != nil {
			response.Abort(c, err)
			return
		}
		setSession(c, &models.Session{UserID: userID, Method: models.AuthMethodToken})
		c.Next()
	}
}

// OptionalSession attaches a cookie session when one validates and never blocks.
func OptionalSession(sessions sessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			if session, err := sessions.Validate(c.Request.Context(), cookie); err == nil {
				setSession(c, session)
			}
		}
		c.Next()
	}
}

// SessionFromContext returns the session stored by Session.
func SessionFromContext(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok && session != nil
}

func setSession(c *gin.Context, session *models.Session) {
	c.Set(ContextSessionKey, session)
	c.Set(logger.UserIDKey, session.UserID)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
