package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService(Config{Secret: []byte("test-secret")})

	tok, err := svc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewService(Config{Secret: []byte("secret-a")})
	verifier := NewService(Config{Secret: []byte("secret-b")})

	tok, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	svc := NewService(Config{Secret: []byte("test-secret")})

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalid, "token %q", tok)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc := NewService(Config{
		Secret: []byte("test-secret"),
		Now:    func() time.Time { return clock },
	})

	tok, err := svc.Issue(9)
	require.NoError(t, err)

	clock = base.Add(SessionTTL + time.Minute)
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerificationTokenShorterLived(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc := NewService(Config{
		Secret: []byte("test-secret"),
		Now:    func() time.Time { return clock },
	})

	verification, err := svc.IssueVerification(9)
	require.NoError(t, err)
	session, err := svc.Issue(9)
	require.NoError(t, err)

	clock = base.Add(2 * time.Hour)

	_, err = svc.Verify(verification)
	assert.ErrorIs(t, err, ErrInvalid)

	id, err := svc.Verify(session)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
}
