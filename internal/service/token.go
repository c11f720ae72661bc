package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/dietrec/backend/internal/types"
)

const sessionTokenIssuer = "dietrec"

// ErrInvalidSessionToken is returned for tokens that fail signature or claim checks
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionTokenService signs and validates session cookies
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokenService creates a new SessionTokenService
func NewSessionTokenService(secret string, ttl time.Duration) *SessionTokenService {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &SessionTokenService{secret: []byte(secret), ttl: ttl}
}

// GenerateToken signs a token carrying the session ID
func (s *SessionTokenService) GenerateToken(sessionID string) (string, error) {
	now := time.Now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses a token and returns its claims
func (s *SessionTokenService) ValidateToken(tokenString string) (*types.SessionClaims, error) {
	claims := &types.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionTokenIssuer))
	if err != nil {
		return nil, errors.Join(ErrInvalidSessionToken, err)
	}

	if !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
