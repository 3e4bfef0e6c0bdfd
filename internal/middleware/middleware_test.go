package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sessionValidatorStub struct {
	sessions map[string]*models.Session
}

func (s *sessionValidatorStub) Validate(ctx context.Context, token string) (*models.Session, error) {
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session")
}

type tokenVerifierStub struct {
	users map[string]string
}

func (t *tokenVerifierStub) VerifyToken(token string) (string, error) {
	if user, ok := t.users[token]; ok {
		return user, nil
	}
	return "", appErrors.ErrInvalidToken
}

type adminValidatorStub struct {
	claims map[string]*models.AdminClaims
}

func (a *adminValidatorStub) ValidateToken(token string) (*models.AdminClaims, error) {
	if claims, ok := a.claims[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func sessionRouter() *gin.Engine {
	sessions := &sessionValidatorStub{sessions: map[string]*models.Session{
		"good-cookie": {ID: "sid", UserID: "1", Method: models.AuthMethodLegacyHash},
	}}
	tokens := &tokenVerifierStub{users: map[string]string{"portal-token": "7"}}

	r := gin.New()
	r.GET("/me", Session(sessions, tokens, "horarios_session"), func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, session.UserID+"|"+c.GetString(logger.UserIDKey))
	})
	return r
}

func TestSessionMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(req *http.Request)
		status int
		body   string
	}{
		{
			name:   "cookie",
			setup:  func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "horarios_session", Value: "good-cookie"}) },
			status: http.StatusOK,
			body:   "1|1",
		},
		{
			name:   "bearer portal token",
			setup:  func(req *http.Request) { req.Header.Set("Authorization", "Bearer portal-token") },
			status: http.StatusOK,
			body:   "7|7",
		},
		{
			name:   "no credentials",
			setup:  func(req *http.Request) {},
			status: http.StatusUnauthorized,
		},
		{
			name:   "bad cookie",
			setup:  func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "horarios_session", Value: "forged"}) },
			status: http.StatusUnauthorized,
		},
		{
			name:   "bad bearer",
			setup:  func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") },
			status: http.StatusForbidden,
		},
	}

	r := sessionRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestOptionalSession(t *testing.T) {
	sessions := &sessionValidatorStub{sessions: map[string]*models.Session{"c": {ID: "sid", UserID: "1"}}}
	r := gin.New()
	r.GET("/", OptionalSession(sessions, "horarios_session"), func(c *gin.Context) {
		_, ok := SessionFromContext(c)
		if ok {
			c.String(http.StatusOK, "session")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "horarios_session", Value: "c"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "session", w.Body.String())
}

func TestJWTAndRBAC(t *testing.T) {
	admins := &adminValidatorStub{claims: map[string]*models.AdminClaims{
		"admin-token": {UserID: "900", Role: models.RoleAdmin},
		"prof-token":  {UserID: "1", Role: models.RoleProfessor},
	}}
	r := gin.New()
	r.GET("/admin", JWT(admins), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.UserID)
	})

	cases := map[string]int{
		"":                   http.StatusUnauthorized,
		"Basic abc":          http.StatusUnauthorized,
		"Bearer unknown":     http.StatusUnauthorized,
		"Bearer prof-token":  http.StatusForbidden,
		"Bearer admin-token": http.StatusOK,
	}
	for header, status := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, header)
	}
}

func TestRBACWithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/", RBAC(string(models.RoleAdmin)), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type observation struct {
	method string
	path   string
	status int
}

type observerStub struct {
	seen []observation
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	o.seen = append(o.seen, observation{method, path, status})
}

func TestMetricsMiddleware(t *testing.T) {
	observer := &observerStub{}
	r := gin.New()
	r.Use(Metrics(observer, "/metrics"))
	r.GET("/api/blocks/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/blocks/3", "/metrics", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, observer.seen, 2)
	assert.Equal(t, observation{http.MethodGet, "/api/blocks/:id", http.StatusTeapot}, observer.seen[0])
	assert.Equal(t, observation{http.MethodGet, "unmatched", http.StatusNotFound}, observer.seen[1])
}
