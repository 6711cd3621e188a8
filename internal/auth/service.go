package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service verifies operator tokens. Token issuance and user management live
// in the external identity service; this engine only validates.
type Service struct {
	secret []byte
}

// NewService creates an auth service reading JWT_SECRET from the environment
func NewService() *Service {
	return &Service{secret: []byte(os.Getenv("JWT_SECRET"))}
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID   uuid.UUID  `json:"user_id"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies an access token
func (s *Service) ValidateToken(tokenString string) (*TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, errors.New("JWT_SECRET is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}
