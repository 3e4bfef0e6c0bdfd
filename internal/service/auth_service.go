package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
	"github.com/noah-isme/horarios-api/pkg/legacyhash"
)

// AuthConfig describes how portal-issued tokens are verified.
type AuthConfig struct {
	TokenSecret       string
	Audience          string
	RequireAudience   bool
	RequireExpiration bool
}

// AuthService authenticates professors arriving from the university portal,
// either with a signed token or with a legacy hex-pair hash.
type AuthService struct {
	sessions *SessionService
	audit    *AuditService
	metrics  *MetricsService
	logger   *zap.Logger
	config   AuthConfig
	now      func() time.Time
}

// NewAuthService constructs the portal token and legacy hash authenticator.
func NewAuthService(sessions *SessionService, audit *AuditService, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{sessions: sessions, audit: audit, metrics: metrics, logger: logger, config: config, now: time.Now}
}

// AuthenticateToken validates a portal token and opens a session for its user_id.
func (s *AuthService) AuthenticateToken(ctx context.Context, token string, meta RequestMeta) (*IssuedSession, error) {
	userID, err := s.VerifyToken(token)
	if err != nil {
		s.metrics.RecordAuthAttempt(models.AuthMethodToken, OutcomeFailure)
		s.logger.Info("token authentication rejected", zap.String("code", appErrors.FromError(err).Code))
		return nil, err
	}
	return s.open(ctx, userID, models.AuthMethodToken, meta)
}

// AuthenticateLegacyHash decodes the legacy identifier and opens a session.
// Every failure is reported as a generic authentication error.
func (s *AuthService) AuthenticateLegacyHash(ctx context.Context, code string, meta RequestMeta) (*IssuedSession, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		s.metrics.RecordAuthAttempt(models.AuthMethodLegacyHash, OutcomeFailure)
		return nil, appErrors.ErrAuthenticationFailed
	}
	userID, err := legacyhash.Decode(code)
	if err != nil || strings.TrimSpace(userID) == "" {
		s.metrics.RecordAuthAttempt(models.AuthMethodLegacyHash, OutcomeFailure)
		s.logger.Info("legacy hash rejected", zap.Error(err))
		return nil, appErrors.ErrAuthenticationFailed
	}
	return s.open(ctx, userID, models.AuthMethodLegacyHash, meta)
}

func (s *AuthService) open(ctx context.Context, userID string, method models.AuthMethod, meta RequestMeta) (*IssuedSession, error) {
	issued, err := s.sessions.Issue(userID, method)
	if err != nil {
		s.metrics.RecordAuthAttempt(method, OutcomeFailure)
		return nil, err
	}
	s.metrics.RecordAuthAttempt(method, OutcomeSuccess)
	s.audit.Record(ctx, userID, models.AuditActionLogin, "session", issued.Session.ID, map[string]string{"method": string(method)}, meta)
	s.logger.Info("session established", zap.String("user_id", userID), zap.String("method", string(method)))
	return issued, nil
}

// Logout revokes the session.
func (s *AuthService) Logout(ctx context.Context, session *models.Session, meta RequestMeta) error {
	if session == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, session); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end session")
	}
	s.audit.Record(ctx, session.UserID, models.AuditActionLogout, "session", session.ID, nil, meta)
	return nil
}

// VerifyToken checks a portal token and returns its user identifier.
//
// The signature is checked before any claim, so a forged token is always
// INVALID_TOKEN. Expiry is checked before audience, so an expired token is
// always EXPIRED_TOKEN.
func (s *AuthService) VerifyToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", appErrors.ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.RequireExpiration {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", appErrors.ErrExpiredToken
		}
		return "", appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, appErrors.ErrInvalidToken.Message)
	}

	if err := s.checkAudience(claims); err != nil {
		return "", err
	}

	userID, ok := userIDClaim(claims["user_id"])
	if !ok {
		return "", appErrors.ErrInvalidPayload
	}
	return userID, nil
}

func (s *AuthService) checkAudience(claims jwt.MapClaims) error {
	if s.config.Audience == "" {
		return nil
	}
	audience, err := claims.GetAudience()
	if err != nil {
		return appErrors.ErrInvalidAudience
	}
	if len(audience) == 0 {
		if s.config.RequireAudience {
			return appErrors.ErrInvalidAudience
		}
		return nil
	}
	for _, aud := range audience {
		if aud == s.config.Audience {
			return nil
		}
	}
	return appErrors.ErrInvalidAudience
}

// userIDClaim accepts string or integral numeric ids; issuers emit both.
func userIDClaim(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
