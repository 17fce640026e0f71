package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-origin-tokens"

func TestOriginToken_RoundTrip(t *testing.T) {
	token, err := GenerateOriginToken(3, 12, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateOriginToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.TableID)
	assert.Equal(t, 12, claims.TableNumber)
	assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))
}

func TestValidateOriginToken_Rejects(t *testing.T) {
	valid, err := GenerateOriginToken(1, 1, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other-secret"},
		{"garbage", "invalid.token.format", testSecret},
		{"empty", "", testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateOriginToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateOriginToken_Expired(t *testing.T) {
	token, err := GenerateOriginToken(1, 1, testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateOriginToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
