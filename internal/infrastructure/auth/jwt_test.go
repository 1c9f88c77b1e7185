package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-unit-tests-32b!",
		AccessTokenExpiration: expiration,
		Issuer:                "retail-backend-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestService(15 * time.Minute)
	userID := uuid.New()

	token, err := service.GenerateToken(GenerateTokenInput{
		UserID:   userID,
		Username: "operator",
		Role:     "manager",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)

	claims, err := service.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "operator", claims.Username)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "retail-backend-test", claims.Issuer)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	service := newTestService(-1 * time.Minute)

	token, err := service.GenerateToken(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "operator",
	})
	require.NoError(t, err)

	_, err = service.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_InvalidToken(t *testing.T) {
	service := newTestService(15 * time.Minute)

	_, err := service.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	service := newTestService(15 * time.Minute)
	other := NewJWTService(config.JWTConfig{
		Secret:                "a-completely-different-secret-key!!",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "retail-backend-test",
	})

	token, err := service.GenerateToken(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "operator",
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
