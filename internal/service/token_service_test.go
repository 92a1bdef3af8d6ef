package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/capacita-api/internal/models"
	"github.com/noah-isme/capacita-api/pkg/config"
)

func signToken(t *testing.T, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenServiceValidateToken(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test_secret"})
	signed := signToken(t, "test_secret", &models.JWTClaims{
		UserID:   "user-1",
		TenantID: "tenant-1",
		Role:     models.RoleIssuer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, models.RoleIssuer, claims.Role)
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test_secret"})
	signed := signToken(t, "other_secret", &models.JWTClaims{TenantID: "tenant-1"})

	_, err := svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test_secret"})
	signed := signToken(t, "test_secret", &models.JWTClaims{
		TenantID: "tenant-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestTokenServiceRejectsMissingTenant(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test_secret"})
	signed := signToken(t, "test_secret", &models.JWTClaims{UserID: "user-1"})

	_, err := svc.ValidateToken(signed)
	assert.Error(t, err)
}
