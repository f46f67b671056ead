package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerRejectsBadConfig(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)
	_, err = NewManager("secret", 0)
	assert.Error(t, err)
}

func TestSessionRoundTrip(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	id, token, err := m.NewSession()
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseRejects(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewManager("other", time.Hour)
	require.NoError(t, err)

	_, token, err := other.NewSession()
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Error(t, err, "wrong key")

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, expired, err := m.NewSession()
	require.NoError(t, err)
	m.now = time.Now
	_, err = m.Parse(expired)
	assert.Error(t, err, "expired")

	notUUID, err := m.NewJWT("user-1")
	require.NoError(t, err)
	_, err = m.Parse(notUUID)
	assert.Error(t, err, "subject must be a session id")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.StandardClaims{Subject: uuid.NewString()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(unsigned)
	assert.Error(t, err, "alg none")

	_, err = m.Parse("garbage")
	assert.Error(t, err)
}

func TestRandomKey(t *testing.T) {
	a, b := RandomKey(), RandomKey()
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
