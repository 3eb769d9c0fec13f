// Package auth implements single-operator login. The operator's credentials come from
// configuration; a successful login yields a signed session token carried in a cookie or an
// Authorization header.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "dealdesk_session"
	issuer     = "dealdesk"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid session token")
)

type Claims struct {
	jwt.RegisteredClaims
}

type Manager struct {
	user     string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(user, password, secret string, ttl time.Duration) *Manager {
	return &Manager{
		user:     user,
		password: password,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks the operator credentials and issues a session token.
func (m *Manager) Login(user, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(m.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1

	if !userOK || !passOK {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := m.now()
	expires := now.Add(m.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}

	return token, expires, nil
}

// Validate parses a session token and returns its claims.
func (m *Manager) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
