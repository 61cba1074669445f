package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBookingIDFormat(t *testing.T) {
	t.Parallel()

	id := GenerateBookingID()
	assert.Regexp(t, `^BOOK-\d{8}-\d{6}-\d{4}$`, id)
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseInt("7", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 1, ParseInt("-5", 1))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := JWTConfig{Secret: "test-secret", ExpiryHours: 1}
	userID := uuid.New()
	sessionID := uuid.New()

	token, expiresAt, err := GenerateAccessToken(cfg, userID, sessionID, "admin")
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, sessionID.String(), claims.SessionID)
	assert.Equal(t, "admin", claims.Role)

	// A different secret must not verify.
	_, err = ParseAccessToken(JWTConfig{Secret: "other"}, token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
