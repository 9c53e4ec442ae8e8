package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	svc := NewAuthService("jwt-secret", "senha-super-secreta", time.Hour)

	assert.True(t, svc.Authenticate("senha-super-secreta"))
	assert.False(t, svc.Authenticate("senha-errada"))
	assert.False(t, svc.Authenticate(""))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("jwt-secret", "senha", time.Hour)

	token, expiresAt, err := svc.GenerateToken()
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))
	assert.NoError(t, svc.ValidateToken(token))
}

func TestValidateToken_RejectsWrongKeyAndExpired(t *testing.T) {
	svc := NewAuthService("jwt-secret", "senha", time.Hour)
	other := NewAuthService("another-secret", "senha", time.Hour)

	token, _, err := svc.GenerateToken()
	require.NoError(t, err)
	assert.Error(t, other.ValidateToken(token))

	expired := NewAuthService("jwt-secret", "senha", -time.Minute)
	expiredToken, _, err := expired.GenerateToken()
	require.NoError(t, err)
	assert.Error(t, svc.ValidateToken(expiredToken))
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	svc := NewAuthService("jwt-secret", "senha", time.Hour)
	assert.Error(t, svc.ValidateToken("not-a-token"))
}
