// Package signature signs and verifies webhook bodies with HMAC-SHA256 in the
// "sha256=<hex>" header format.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const prefix = "sha256="

// Sign returns the header value for body.
func Sign(body []byte, secret string) string {
	return prefix + compute(body, secret)
}

// Verify checks the header value against body.
func Verify(body []byte, header, secret string) bool {
	if !strings.HasPrefix(header, prefix) || len(header) == len(prefix) {
		return false
	}
	expected := compute(body, secret)
	return hmac.Equal([]byte(header[len(prefix):]), []byte(expected))
}

func compute(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
