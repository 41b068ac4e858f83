package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/auth"
)

func testConfig() auth.JWTConfig {
	return auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.saferoute.app",
		Audience:   "saferoute-api",
	}
}

func TestJWTService_GenerateAndValidateAdminToken(t *testing.T) {
	svc := auth.NewJWTService(testConfig())

	token, expiresAt, err := svc.GenerateAdminToken("ops@saferoute.app")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@saferoute.app", claims.Subject)
	assert.Equal(t, auth.ScopeAdmin, claims.Scope)
	assert.Equal(t, "https://api.saferoute.app", claims.Issuer)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := auth.NewJWTService(testConfig())

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAdminToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTService_WrongSigningKey(t *testing.T) {
	svc1 := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "key-one",
		Issuer:     "https://api.saferoute.app",
		Audience:   "saferoute-api",
	})

	token, _, err := svc1.GenerateAdminToken("ops@saferoute.app")
	require.NoError(t, err)

	svc2 := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "key-two",
		Issuer:     "https://api.saferoute.app",
		Audience:   "saferoute-api",
	})

	_, err = svc2.ValidateAdminToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_WrongAudience(t *testing.T) {
	svc1 := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "shared-key",
		Issuer:     "https://api.saferoute.app",
		Audience:   "other-api",
	})

	token, _, err := svc1.GenerateAdminToken("ops@saferoute.app")
	require.NoError(t, err)

	svc2 := auth.NewJWTService(testConfig())
	_, err = svc2.ValidateAdminToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
