package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signToken(t *testing.T, secret string, claims *TokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := &Service{secret: []byte("test-secret")}
	tenantID := uuid.New()

	claims := &TokenClaims{
		UserID:   uuid.New(),
		TenantID: &tenantID,
		Email:    "operator@example.com",
		Role:     "operator",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	got, err := svc.ValidateToken(signToken(t, "test-secret", claims))
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if got.UserID != claims.UserID || got.Role != "operator" {
		t.Errorf("claims = %+v, expected user %s role operator", got, claims.UserID)
	}
	if got.TenantID == nil || *got.TenantID != tenantID {
		t.Errorf("TenantID = %v, expected %s", got.TenantID, tenantID)
	}
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	svc := &Service{secret: []byte("test-secret")}

	expired := &TokenClaims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, "other-secret", &TokenClaims{UserID: uuid.New()})},
		{"expired token", signToken(t, "test-secret", expired)},
		{"garbage", "not.a.token"},
	}

	for _, test := range tests {
		if _, err := svc.ValidateToken(test.token); err == nil {
			t.Errorf("%s: expected validation to fail", test.name)
		}
	}
}

func TestValidateTokenWithoutSecret(t *testing.T) {
	svc := &Service{}
	if _, err := svc.ValidateToken("anything"); err == nil {
		t.Error("expected error when no secret is configured")
	}
}
