package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	"github.com/noah-isme/horarios-api/internal/service"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/response"
)

const preferencesPath = "/preferences"

type professorAuthenticator interface {
	AuthenticateToken(ctx context.Context, token string, meta service.RequestMeta) (*service.IssuedSession, error)
	AuthenticateLegacyHash(ctx context.Context, code string, meta service.RequestMeta) (*service.IssuedSession, error)
	Logout(ctx context.Context, session *models.Session, meta service.RequestMeta) error
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler establishes professor sessions from portal links.
type AuthHandler struct {
	service professorAuthenticator
	cookie  CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc professorAuthenticator, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "horarios_session"
	}
	if cookie.TTL <= 0 {
		cookie.TTL = 30 * time.Minute
	}
	return &AuthHandler{service: svc, cookie: cookie}
}

// Entry godoc
// @Summary Portal entry point
// @Description Opens a session from a portal token or a legacy hash link
// @Tags Authentication
// @Produce json
// @Param token query string false "Portal token"
// @Param hash query string false "Legacy hash"
// @Success 200 {object} response.Envelope
// @Success 302
// @Failure 401 {object} response.Envelope
// @Router / [get]
func (h *AuthHandler) Entry(c *gin.Context) {
	if c.Query("token") != "" {
		h.Token(c)
		return
	}
	hash := c.Query("hash")
	if hash == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrAuthenticationFailed, "Error de autenticación."))
		return
	}

	issued, err := h.service.AuthenticateLegacyHash(c.Request.Context(), hash, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.startSession(c, issued)
}

// Token godoc
// @Summary Authenticate with a portal token
// @Tags Authentication
// @Produce json
// @Param token query string true "Portal token"
// @Success 200 {object} response.Envelope
// @Success 302
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth [get]
func (h *AuthHandler) Token(c *gin.Context) {
	issued, err := h.service.AuthenticateToken(c.Request.Context(), c.Query("token"), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.startSession(c, issued)
}

// Logout godoc
// @Summary End the professor session
// @Tags Authentication
// @Success 204
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if session := sessionFromContext(c); session != nil {
		if err := h.service.Logout(c.Request.Context(), session, requestMeta(c)); err != nil {
			response.Error(c, err)
			return
		}
	}
	h.setCookie(c, "", -1)
	response.NoContent(c)
}

func (h *AuthHandler) startSession(c *gin.Context, issued *service.IssuedSession) {
	h.setCookie(c, issued.Token, int(h.cookie.TTL.Seconds()))
	if wantsJSON(c) {
		response.JSON(c, http.StatusOK, dto.AuthRedirectResponse{Success: true, Redirect: preferencesPath}, nil)
		return
	}
	c.Redirect(http.StatusFound, preferencesPath)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
