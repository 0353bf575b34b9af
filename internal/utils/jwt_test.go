package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return NewTokenIssuer("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	i := newIssuer(time.Minute, time.Hour)
	tok, exp, err := i.IssueAccess("user-1", "a@x.com", "user")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Minute), exp, 5*time.Second)

	claims, err := i.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	i := newIssuer(-time.Minute, time.Hour)
	tok, _, err := i.IssueAccess("user-1", "a@x.com", "user")
	require.NoError(t, err)

	_, err = i.VerifyAccess(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessToken_Tampered(t *testing.T) {
	t.Parallel()

	i := newIssuer(time.Minute, time.Hour)
	tok, _, err := i.IssueAccess("user-1", "a@x.com", "user")
	require.NoError(t, err)

	_, err = i.VerifyAccess(tok[:len(tok)-2] + "xx")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	other := NewTokenIssuer("different-secret", "refresh-secret", time.Minute, time.Hour)
	tok, _, err := other.IssueAccess("user-1", "a@x.com", "user")
	require.NoError(t, err)

	_, err = newIssuer(time.Minute, time.Hour).VerifyAccess(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	i := newIssuer(time.Minute, time.Hour)
	tok, exp, err := i.IssueRefresh("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), exp, 5*time.Second)

	claims, err := i.VerifyRefresh(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "refresh", claims.TokenType)
	assert.NotEmpty(t, claims.ID, "refresh tokens need a jti")
}

func TestRefreshToken_UniquePerIssue(t *testing.T) {
	t.Parallel()

	i := newIssuer(time.Minute, time.Hour)
	t1, _, err := i.IssueRefresh("user-1")
	require.NoError(t, err)
	t2, _, err := i.IssueRefresh("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
	assert.NotEqual(t, HashToken(t1), HashToken(t2))
}

// An access token must not pass as a refresh token and vice versa, even
// though both are HS256 JWTs.
func TestTokenTypeSeparation(t *testing.T) {
	t.Parallel()

	i := newIssuer(time.Minute, time.Hour)

	access, _, err := i.IssueAccess("user-1", "a@x.com", "user")
	require.NoError(t, err)
	_, err = i.VerifyRefresh(access)
	require.ErrorIs(t, err, ErrTokenInvalid)

	refresh, _, err := i.IssueRefresh("user-1")
	require.NoError(t, err)
	_, err = i.VerifyAccess(refresh)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

// Even with identical secrets the typ claim keeps the kinds apart.
func TestTokenTypeSeparation_SharedSecret(t *testing.T) {
	t.Parallel()

	i := NewTokenIssuer("same", "same", time.Minute, time.Hour)

	refresh, _, err := i.IssueRefresh("user-1")
	require.NoError(t, err)
	_, err = i.VerifyAccess(refresh)
	require.ErrorIs(t, err, ErrTokenInvalid)

	access, _, err := i.IssueAccess("user-1", "a@x.com", "user")
	require.NoError(t, err)
	_, err = i.VerifyRefresh(access)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	i := newIssuer(time.Minute, time.Hour)
	_, err := i.VerifyAccess("not.a.jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = i.VerifyRefresh("")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHashToken_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
