// ABOUTME: Authorization gate: static API key plus signed admin session tokens
// ABOUTME: Sessions are HMAC-signed JWTs with a configurable TTL; passwords verify via bcrypt
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when an admin signin fails
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service makes the boolean authorization decisions the API needs. The
// mechanism (key header vs. session cookie) is invisible to the pipeline
// and the store.
type Service struct {
	apiKey        string
	adminUsername string
	adminPassword string
	secret        []byte
	sessionTTL    time.Duration
}

// Config holds the auth service settings
type Config struct {
	APIKey        string
	AdminUsername string
	AdminPassword string // plain text or a bcrypt hash ($2...)
	SessionSecret string
	SessionTTL    time.Duration
}

// NewService creates an auth Service
func NewService(cfg Config) (*Service, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &Service{
		apiKey:        cfg.APIKey,
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
		secret:        []byte(cfg.SessionSecret),
		sessionTTL:    cfg.SessionTTL,
	}, nil
}

// CheckAPIKey reports whether the presented key matches the configured
// one. An empty configured key disables key-based access entirely.
func (s *Service) CheckAPIKey(presented string) bool {
	if s.apiKey == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.apiKey), []byte(presented)) == 1
}

// SignIn validates admin credentials and issues a signed, time-limited
// session token
func (s *Service) SignIn(username, password string) (string, error) {
	if username != s.adminUsername {
		return "", ErrInvalidCredentials
	}
	if !s.passwordMatches(password) {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ValidateSession reports whether a session token is well-formed, signed
// by us, and unexpired
func (s *Service) ValidateSession(token string) bool {
	if token == "" {
		return false
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	return err == nil && parsed.Valid
}

// SessionTTL returns the configured session lifetime
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// passwordMatches compares against either a bcrypt hash or, when the
// configured password is not hashed, the plain value
func (s *Service) passwordMatches(password string) bool {
	if strings.HasPrefix(s.adminPassword, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(s.adminPassword), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.adminPassword), []byte(password)) == 1
}
