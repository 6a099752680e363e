package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// InviteClaims carry the session an invite link grants access to.
type InviteClaims struct {
	SessionID uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

// InviteService issues and validates candidate invite tokens. A token is
// scoped to a single session and expires after the configured TTL.
type InviteService struct {
	secret []byte
	ttl    time.Duration
}

// NewInviteService creates an invite service with the given signing secret
// and token lifetime.
func NewInviteService(secret string, ttl time.Duration) *InviteService {
	return &InviteService{secret: []byte(secret), ttl: ttl}
}

// GenerateToken signs an invite token for the given session.
func (s *InviteService) GenerateToken(sessionID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := &InviteClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken validates an invite token and returns its claims.
func (s *InviteService) ValidateToken(tokenString string) (*InviteClaims, error) {
	if tokenString == "" {
		return nil, &ErrInvalidInvite{Reason: "empty token"}
	}

	claims := &InviteClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, &ErrInvalidInvite{Reason: err.Error()}
	}
	if !token.Valid {
		return nil, &ErrInvalidInvite{Reason: "token is not valid"}
	}

	return claims, nil
}
