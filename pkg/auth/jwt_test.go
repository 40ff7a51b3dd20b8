package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndParse(t *testing.T) {
	svc, err := NewJWTService("secret", "indcric", time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateToken("uid-1", "a@b.co", "admin")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTService_Expired(t *testing.T) {
	svc, err := NewJWTService("secret", "indcric", time.Minute)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.GenerateToken("uid-1", "", "user")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_Rejects(t *testing.T) {
	svc, err := NewJWTService("secret", "indcric", time.Hour)
	require.NoError(t, err)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	other, err := NewJWTService("other-secret", "indcric", time.Hour)
	require.NoError(t, err)
	foreign, err := other.GenerateToken("uid-1", "", "user")
	require.NoError(t, err)
	_, err = svc.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongIssuer, err := NewJWTService("secret", "someone-else", time.Hour)
	require.NoError(t, err)
	tok, err := wrongIssuer.GenerateToken("uid-1", "", "user")
	require.NoError(t, err)
	_, err = svc.ParseToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1", Issuer: "indcric"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(unsigned)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(" ", "indcric", time.Hour)
	assert.Error(t, err)
}
