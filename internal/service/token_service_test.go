package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-bytes-long", time.Hour, "wallet-gateway-test")

	token, expiry, err := svc.Generate("admin-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	svc := NewJWTTokenService("secret-one-at-least-32-bytes-long!", time.Hour, "iss")
	other := NewJWTTokenService("secret-two-at-least-32-bytes-long!", time.Hour, "iss")

	token, _, err := svc.Generate("admin-1")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-bytes-long", -time.Minute, "iss")

	token, _, err := svc.Generate("admin-1")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-bytes-long", time.Hour, "iss")

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_MissingAdminRole(t *testing.T) {
	secret := "test-secret-at-least-32-bytes-long"
	svc := NewJWTTokenService(secret, time.Hour, "iss")

	// Token signed with the right secret but without the admin role claim.
	claims := jwt.MapClaims{
		"sub": "admin-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = svc.Validate(raw)
	assert.Error(t, err)
}
