package jwtx_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/srihealth/srihealth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "srihealth-api"

var exampleSecret = []byte("test-secret-key-0123456789abcdef")

func TestHMACSignAndVerify(t *testing.T) {
	signer, err := jwtx.NewSignerHMAC("HS256", exampleSecret)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims(
		"a@x.com",     // subject
		"Ana",         // display name
		2*time.Minute, // TTL
		exampleIssuer, // issuer
		now,           // issued at time
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verifier, err := jwtx.NewVerifierHMAC("HS256", exampleSecret, exampleIssuer)
	require.NoError(t, err)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)

	require.Equal(t, claims.Subject, parsed.Subject)
	require.Equal(t, claims.Name, parsed.Name)
	require.Equal(t, claims.Issuer, parsed.Issuer)
	require.NotNil(t, parsed.ExpiresAt, "expiration claim should be present")
	require.WithinDuration(t, now.Add(2*time.Minute), parsed.ExpiresAt.Time, time.Second)
	require.NotEmpty(t, parsed.ID) // JTI should be set
}

func TestHMACSignRejectsMissingSubject(t *testing.T) {
	signer, err := jwtx.NewSignerHMAC("HS256", exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("", "No Subject", time.Minute, exampleIssuer, time.Now().UTC())

	token, err := signer.Sign(claims)
	require.ErrorIs(t, err, jwtx.ErrMissingSubject)
	require.Empty(t, token, "no token should be produced")
}

func TestHMACVerifyFailsForExpiredToken(t *testing.T) {
	signer, err := jwtx.NewSignerHMAC("HS256", exampleSecret)
	require.NoError(t, err)

	// Issued in the past so the token is already expired at verify time.
	issued := time.Now().UTC().Add(-10 * time.Minute)
	claims := jwtx.NewAccessClaims("a@x.com", "Ana", time.Minute, exampleIssuer, issued)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHMAC("HS256", exampleSecret, exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestHMACVerifyFailsForWrongSecret(t *testing.T) {
	signer, err := jwtx.NewSignerHMAC("HS256", exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("a@x.com", "Ana", time.Minute, exampleIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHMAC("HS256", []byte("a-completely-different-secret"), exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHMACVerifyFailsForTamperedPayload(t *testing.T) {
	signer, err := jwtx.NewSignerHMAC("HS256", exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("a@x.com", "Ana", time.Minute, exampleIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	// Swap the subject inside the payload without re-signing.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	tampered := strings.Replace(string(payload), "a@x.com", "b@x.com", 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))

	verifier, err := jwtx.NewVerifierHMAC("HS256", exampleSecret, exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(strings.Join(parts, "."))
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHMACVerifyFailsForAlgorithmMismatch(t *testing.T) {
	// Token signed with HS512 must not verify against an HS256 verifier,
	// even with the correct secret.
	signer, err := jwtx.NewSignerHMAC("HS512", exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("a@x.com", "Ana", time.Minute, exampleIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHMAC("HS256", exampleSecret, exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	require.NotErrorIs(t, err, jwtx.ErrExpired)
}

func TestHMACVerifyFailsForWrongIssuer(t *testing.T) {
	signer, err := jwtx.NewSignerHMAC("HS256", exampleSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("a@x.com", "Ana", time.Minute, "some-other-issuer", time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHMAC("HS256", exampleSecret, exampleIssuer)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestHMACVerifyFailsForGarbage(t *testing.T) {
	verifier, err := jwtx.NewVerifierHMAC("HS256", exampleSecret, exampleIssuer)
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "token %q", token)
	}
}

func TestNewSignerHMACConfigErrors(t *testing.T) {
	_, err := jwtx.NewSignerHMAC("RS256", exampleSecret)
	require.ErrorIs(t, err, jwtx.ErrUnknownAlg)

	_, err = jwtx.NewSignerHMAC("HS256", nil)
	require.ErrorIs(t, err, jwtx.ErrEmptySecret)

	_, err = jwtx.NewVerifierHMAC("none", exampleSecret, exampleIssuer)
	require.ErrorIs(t, err, jwtx.ErrUnknownAlg)
}
