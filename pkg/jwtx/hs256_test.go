package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "gatekeeper-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestSigner(t *testing.T) *HS256Signer {
	t.Helper()
	s, err := NewSignerHS256(testSecret)
	require.NoError(t, err)
	return s
}

func TestNewSignerHS256RejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewSignerHS256(nil)
	require.Error(t, err)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifierHS256(testSecret, testIssuer)

	claims := NewClaims("test", testIssuer, time.Minute, time.Now())
	tok, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(tok, ".")))

	got, err := verifier.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "test", got.Username)
	require.Equal(t, "test", got.Subject)
	require.Equal(t, testIssuer, got.Issuer)
	require.WithinDuration(t, claims.ExpiresAt.Time, got.ExpiresAt.Time, time.Second)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	verifier := NewVerifierHS256(testSecret, testIssuer)

	for _, in := range []string{"", "garbage", "a.b", "a.b.c.d", "!!.!!.!!"} {
		_, err := verifier.Verify(in)
		require.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	tok, err := signer.Sign(NewClaims("test", testIssuer, time.Minute, time.Now()))
	require.NoError(t, err)

	verifier := NewVerifierHS256([]byte("a completely different secret!!!"), testIssuer)
	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifierHS256(testSecret, testIssuer)

	// Issued an hour ago with a 30 minute lifetime.
	claims := NewClaims("test", testIssuer, 30*time.Minute, time.Now().Add(-time.Hour))
	tok, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	t.Parallel()

	verifier := NewVerifierHS256(testSecret, testIssuer)

	// alg=none tokens must never verify, signed claims or not.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, NewClaims("test", testIssuer, time.Minute, time.Now()))
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	tok, err := signer.Sign(NewClaims("test", "someone-else", time.Minute, time.Now()))
	require.NoError(t, err)

	verifier := NewVerifierHS256(testSecret, testIssuer)
	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifierIgnoresIssuerWhenUnset(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	tok, err := signer.Sign(NewClaims("test", "anything", time.Minute, time.Now()))
	require.NoError(t, err)

	verifier := NewVerifierHS256(testSecret, "")
	_, err = verifier.Verify(tok)
	require.NoError(t, err)
}

func TestNewJTIIsUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]struct{}{}
	for range 100 {
		jti := NewJTI()
		_, dup := seen[jti]
		require.False(t, dup)
		seen[jti] = struct{}{}
	}
}
