package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthMethod records how a session was established.
type AuthMethod string

const (
	AuthMethodToken      AuthMethod = "token"
	AuthMethodLegacyHash AuthMethod = "legacy_hash"
)

// Session is the authenticated state for one professor. Its lifetime is
// absolute and never extended on access.
type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Method    AuthMethod `json:"method"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Remaining returns the lifetime left at now, never negative.
func (s Session) Remaining(now time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// SessionClaims is the payload of the signed session cookie.
type SessionClaims struct {
	SessionID string     `json:"sid"`
	UserID    string     `json:"user_id"`
	Method    AuthMethod `json:"method"`
	jwt.RegisteredClaims
}

// AdminClaims is the payload of administrator access tokens.
type AdminClaims struct {
	UserID string     `json:"user_id"`
	Role   PersonRole `json:"role"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	jwt.RegisteredClaims
}
