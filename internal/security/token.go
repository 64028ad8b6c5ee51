package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "smartedtech"

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is the payload of the signed session marker cookie
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies session markers and CSRF tokens.
// Both are derived from one server secret so replicas need no shared state
// beyond the session store.
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

// NewTokenSigner creates a signer for the given secret
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), now: time.Now}
}

// NewSessionID creates a new UUID for session identification
func NewSessionID() string {
	return uuid.New().String()
}

// Issue signs a session marker for sessionID owned by userID
func (s *TokenSigner) Issue(sessionID, userID string, expiresAt time.Time) (string, error) {
	now := s.now().UTC()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt.UTC()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a session marker's signature, issuer and expiry
func (s *TokenSigner) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CSRFToken returns the form token bound to sessionID
func (s *TokenSigner) CSRFToken(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte("csrf:" + sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidCSRFToken reports whether token is the CSRF token for sessionID
func (s *TokenSigner) ValidCSRFToken(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(s.CSRFToken(sessionID)), []byte(token))
}
