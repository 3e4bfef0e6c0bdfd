package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
)

type sessionStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// SessionConfig controls session token signing.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// IssuedSession pairs a session with its signed cookie value.
type IssuedSession struct {
	Session *models.Session
	Token   string
}

// SessionService issues and verifies the signed session cookie. Sessions
// have an absolute lifetime counted from issue time.
type SessionService struct {
	store  sessionStore
	cfg    SessionConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionService constructs the session issuer.
func NewSessionService(store sessionStore, cfg SessionConfig, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	return &SessionService{store: store, cfg: cfg, logger: logger, now: time.Now}
}

// TTL is the fixed session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.cfg.TTL
}

// Issue creates a session for userID.
func (s *SessionService) Issue(userID string, method models.AuthMethod) (*IssuedSession, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Method:    method,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.cfg.TTL),
	}

	claims := &models.SessionClaims{
		SessionID: session.ID,
		UserID:    userID,
		Method:    method,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session")
	}
	return &IssuedSession{Session: session, Token: signed}, nil
}

// Validate parses the cookie value and rejects expired or revoked sessions.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session required")
	}

	claims := &models.SessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}
	if claims.SessionID == "" || claims.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session")
	}

	revoked, err := s.store.IsRevoked(ctx, claims.SessionID)
	if err != nil {
		// revocation backend down: keep serving signed, unexpired sessions
		s.logger.Warn("session revocation check failed", zap.String("sid", claims.SessionID), zap.Error(err))
	} else if revoked {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session revoked")
	}

	session := &models.Session{
		ID:     claims.SessionID,
		UserID: claims.UserID,
		Method: claims.Method,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return session, nil
}

// Revoke blacklists the session for the rest of its lifetime.
func (s *SessionService) Revoke(ctx context.Context, session *models.Session) error {
	if session == nil || session.ID == "" {
		return nil
	}
	if err := s.store.Revoke(ctx, session.ID, session.Remaining(s.now())); err != nil {
		return fmt.Errorf("revoke session %s: %w", session.ID, err)
	}
	return nil
}
