package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Header names for signed external settlement callbacks.
const (
	HeaderTimestamp = "X-Callback-Timestamp"
	HeaderSignature = "X-Callback-Signature"
)

// maxTimestampSkew bounds how old (or how far in the future) a callback
// timestamp may be before the request is rejected as a replay.
const maxTimestampSkew = 5 * time.Minute

var (
	// ErrBadSignature means the HMAC did not match the request body.
	ErrBadSignature = errors.New("crypto: signature mismatch")
	// ErrStaleTimestamp means the timestamp fell outside the accepted window.
	ErrStaleTimestamp = errors.New("crypto: timestamp outside accepted window")
)

// CallbackAuth verifies HMAC-authenticated settlement callbacks from bookie
// partners. The signature is HMAC-SHA256(secret, timestamp+body) encoded as
// base64, with the Unix timestamp carried in a separate header.
type CallbackAuth struct {
	secret []byte
}

// NewCallbackAuth returns a CallbackAuth using the given shared secret.
func NewCallbackAuth(secret string) *CallbackAuth {
	return &CallbackAuth{secret: []byte(secret)}
}

// Sign computes the signature for a request body at the given Unix timestamp.
// Partners use the same construction on their side.
func (a *CallbackAuth) Sign(unixTS int64, body []byte) string {
	message := strconv.FormatInt(unixTS, 10) + string(body)
	return hmacSHA256Base64(a.secret, message)
}

// Verify checks a callback's timestamp and signature headers against the raw
// request body. The timestamp must be within maxTimestampSkew of now.
func (a *CallbackAuth) Verify(timestamp, signature string, body []byte, now time.Time) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("crypto: invalid timestamp %q: %w", timestamp, err)
	}

	skew := now.Sub(time.Unix(ts, 0))
	if skew < -maxTimestampSkew || skew > maxTimestampSkew {
		return ErrStaleTimestamp
	}

	expected := a.Sign(ts, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

// hmacSHA256Base64 computes HMAC-SHA256 of message using key and returns the
// result as a base64 standard-encoded string.
func hmacSHA256Base64(key []byte, message string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
