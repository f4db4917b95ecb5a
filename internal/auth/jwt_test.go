package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = user.User{ID: "u-1", Email: "manager1@aidash.com", Role: user.RoleManager}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	raw, err := m.GenerateAccessToken(testUser)
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID())
	assert.Equal(t, "manager1@aidash.com", claims.Email)
	assert.Equal(t, user.RoleManager, claims.RoleValue())
	assert.NotEmpty(t, claims.ID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	access, err := m.GenerateAccessToken(testUser)
	require.NoError(t, err)
	refresh, jti, exp, err := m.GenerateRefreshToken(testUser)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.True(t, exp.After(time.Now()))

	_, err = m.VerifyRefreshToken(access)
	assert.True(t, errors.Is(err, ErrInvalidTokenType))

	_, err = m.VerifyAccessToken(refresh)
	assert.True(t, errors.Is(err, ErrInvalidTokenType))

	claims, err := m.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("secret", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := m.GenerateAccessToken(testUser)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyAccessToken(raw)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	raw, err := NewManager("one", time.Hour, time.Hour).GenerateAccessToken(testUser)
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour, time.Hour).VerifyAccessToken(raw)
	assert.Error(t, err)
}

func TestUnknownRoleClaim(t *testing.T) {
	m := NewManager("secret", time.Hour, time.Hour)
	raw, err := m.GenerateAccessToken(user.User{ID: "x", Email: "x@y.com", Role: user.Role("Root")})
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUnknown, claims.RoleValue())
}

func TestHashRefreshTokenIsKeyed(t *testing.T) {
	a := NewManager("one", time.Hour, time.Hour).HashRefreshToken("tok")
	b := NewManager("two", time.Hour, time.Hour).HashRefreshToken("tok")
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
