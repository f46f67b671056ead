package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// Manager issues and verifies the anonymous session tokens that scope
// favorites and sign-up drafts. The token subject is the session id.
type Manager struct {
	signingKey string
	ttl        time.Duration
	now        func() time.Time
}

func NewManager(signingKey string, ttl time.Duration) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	return &Manager{signingKey: signingKey, ttl: ttl, now: time.Now}, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// NewSession starts a session with a fresh id and returns its token.
func (m *Manager) NewSession() (sessionID, token string, err error) {
	sessionID = uuid.NewString()
	token, err = m.NewJWT(sessionID)
	return sessionID, token, err
}

func (m *Manager) NewJWT(sessionID string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.ttl).Unix(),
		Subject:   sessionID,
	})

	return token.SignedString([]byte(m.signingKey))
}

// Parse validates the token and returns the session id it carries.
func (m *Manager) Parse(accessToken string) (string, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.signingKey), nil
	})
	if err != nil {
		return "", err
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("invalid session subject: %w", err)
	}
	return claims.Subject, nil
}

// RandomKey returns a 32 byte hex encoded signing key.
func RandomKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
