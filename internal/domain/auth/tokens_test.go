package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tk := NewTokens("test-secret", time.Hour)

	token, err := tk.Issue(42)
	require.NoError(t, err)

	id, err := tk.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokens_Expired(t *testing.T) {
	tk := NewTokens("test-secret", time.Hour)
	tk.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tk.Issue(42)
	require.NoError(t, err)

	tk.now = time.Now
	_, err = tk.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_WrongSecret(t *testing.T) {
	token, err := NewTokens("secret-a", time.Hour).Issue(42)
	require.NoError(t, err)

	_, err = NewTokens("secret-b", time.Hour).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Garbage(t *testing.T) {
	_, err := NewTokens("secret", time.Hour).Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}
