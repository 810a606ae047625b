package api

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"clubledger/domain/entities"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const sessionIssuer = "clubledger"

var (
	// ErrMissingSession is returned when a request carries no token
	ErrMissingSession = errors.New("missing session token")
	// ErrInvalidSession is returned for bad, expired or revoked tokens
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Claims is the payload of a session token
type Claims struct {
	MemberID string `json:"member_id,omitempty"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the account the token was issued to
func (c *Claims) Identity() entities.Identity {
	return entities.Identity{
		MemberID: c.MemberID,
		Name:     c.Name,
		Email:    c.Email,
		IsAdmin:  c.IsAdmin,
	}
}

// SessionManager issues and validates HMAC signed session tokens.
// Logged out token ids are remembered until the token would have expired.
type SessionManager struct {
	key   []byte
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewSessionManager creates a session manager
func NewSessionManager(secret string, ttl time.Duration, clock clockwork.Clock) *SessionManager {
	return &SessionManager{
		key:     []byte(secret),
		ttl:     ttl,
		clock:   clock,
		revoked: make(map[string]time.Time),
	}
}

// Issue signs a new token for an identity
func (m *SessionManager) Issue(identity entities.Identity) (string, time.Time, error) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)
	subject := identity.MemberID
	if identity.IsAdmin {
		subject = identity.Email
	}

	claims := &Claims{
		MemberID: identity.MemberID,
		Email:    identity.Email,
		Name:     identity.Name,
		IsAdmin:  identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates a token and returns its claims
func (m *SessionManager) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingSession
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}

	m.mu.Lock()
	_, revoked := m.revoked[claims.ID]
	m.mu.Unlock()
	if revoked {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Revoke invalidates a token before it expires
func (m *SessionManager) Revoke(claims *Claims) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	for id, expiry := range m.revoked {
		if !expiry.After(now) {
			delete(m.revoked, id)
		}
	}
	if claims.ExpiresAt != nil {
		m.revoked[claims.ID] = claims.ExpiresAt.Time
	}
}
