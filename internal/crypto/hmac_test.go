package crypto

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAcceptsValidSignature(t *testing.T) {
	auth := NewCallbackAuth("shared-secret")
	now := time.Unix(1_760_000_000, 0)
	body := []byte(`{"wagerId":"abc","status":"won"}`)

	sig := auth.Sign(now.Unix(), body)
	err := auth.Verify(strconv.FormatInt(now.Unix(), 10), sig, body, now)
	require.NoError(t, err)
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	auth := NewCallbackAuth("shared-secret")
	now := time.Unix(1_760_000_000, 0)

	sig := auth.Sign(now.Unix(), []byte(`{"status":"lost"}`))
	err := auth.Verify(strconv.FormatInt(now.Unix(), 10), sig, []byte(`{"status":"won"}`), now)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	body := []byte(`{}`)

	sig := NewCallbackAuth("theirs").Sign(now.Unix(), body)
	err := NewCallbackAuth("ours").Verify(strconv.FormatInt(now.Unix(), 10), sig, body, now)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	auth := NewCallbackAuth("shared-secret")
	now := time.Unix(1_760_000_000, 0)
	body := []byte(`{}`)
	old := now.Add(-10 * time.Minute)

	sig := auth.Sign(old.Unix(), body)
	err := auth.Verify(strconv.FormatInt(old.Unix(), 10), sig, body, now)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifyRejectsNonNumericTimestamp(t *testing.T) {
	auth := NewCallbackAuth("shared-secret")
	err := auth.Verify("yesterday", "sig", []byte(`{}`), time.Now())
	assert.Error(t, err)
}

func TestSecretRoundTrip(t *testing.T) {
	blob, err := EncryptSecret("callback-secret", "password123")
	require.NoError(t, err)

	got, err := DecryptSecret(blob, "password123")
	require.NoError(t, err)
	assert.Equal(t, "callback-secret", got)

	_, err = DecryptSecret(blob, "wrong-password")
	assert.Error(t, err)
}

func TestLoadSecretPrecedence(t *testing.T) {
	got, err := LoadSecret(SecretConfig{RawSecret: "plain"})
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	// Nothing configured disables callback auth.
	got, err = LoadSecret(SecretConfig{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
