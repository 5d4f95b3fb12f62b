package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) *JWTResolver {
	r, err := NewJWTResolver("test-secret", "wallet-ledger")
	require.NoError(t, err)
	return r
}

func TestNewJWTResolver_RequiresSecret(t *testing.T) {
	_, err := NewJWTResolver("", "issuer")
	assert.Error(t, err)
}

func TestResolve_RoundTrip(t *testing.T) {
	r := newResolver(t)

	token, err := r.Issue("alice@example.com", false, time.Hour, time.Now())
	require.NoError(t, err)

	p, err := r.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, Principal{AccountId: "alice@example.com"}, p)

	adminToken, err := r.Issue("ops", true, time.Hour, time.Now())
	require.NoError(t, err)

	p, err = r.Resolve(context.Background(), adminToken)
	require.NoError(t, err)
	assert.True(t, p.Admin)
}

func TestResolve_Rejects(t *testing.T) {
	r := newResolver(t)
	ctx := context.Background()

	expired, err := r.Issue("alice", false, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	other, err := NewJWTResolver("other-secret", "wallet-ledger")
	require.NoError(t, err)
	forged, err := other.Issue("alice", true, time.Hour, time.Now())
	require.NoError(t, err)

	wrongIssuer, err := NewJWTResolver("test-secret", "someone-else")
	require.NoError(t, err)
	misissued, err := wrongIssuer.Issue("alice", false, time.Hour, time.Now())
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "wallet-ledger",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", Issuer: "wallet-ledger"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "wallet-ledger",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"forged":       forged,
		"wrong issuer": misissued,
		"unsigned":     unsigned,
		"no expiry":    noExpiry,
		"no subject":   noSubject,
		"garbage":      "not-a-jwt",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(ctx, token)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}

	_, err = r.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestIssue_Validation(t *testing.T) {
	r := newResolver(t)

	_, err := r.Issue("", false, time.Hour, time.Now())
	assert.Error(t, err)

	_, err = r.Issue("alice", false, 0, time.Now())
	assert.Error(t, err)
}
