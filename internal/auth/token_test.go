package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	raw, err := issuer.Issue(User{ID: "u1", Email: "asha@example.com", DisplayName: "Asha"})
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.Equal(t, "asha@example.com", claims.Email)
	require.Equal(t, "Asha", claims.Name)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	raw, err := NewTokenIssuer("other", time.Hour).Issue(User{ID: "u1"})
	require.NoError(t, err)
	_, err = issuer.Parse(raw)
	require.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(unsigned)
	require.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err := issuer.Issue(User{ID: "u1"})
	require.NoError(t, err)

	_, err = issuer.Parse(raw)
	require.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	issuer := NewTokenIssuer("secret", 0)
	require.Equal(t, 72*time.Hour, issuer.ttl)
}
