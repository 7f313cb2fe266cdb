// Package secrets issues the per-deployment shared secrets that workers use
// to authenticate callback beacons. Only a digest is ever stored; the clear
// value exists just long enough to be pushed to the worker.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// TokenPrefix identifies agentview-issued worker secrets.
const TokenPrefix = "avs_"

const tokenBytes = 32

// Generate returns a fresh worker secret.
func Generate() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// Digest returns the hex SHA-256 digest of a secret, the only form that
// is persisted.
func Digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether a presented secret matches a stored digest.
// Comparison is constant time over the digests.
func Verify(secret, digest string) bool {
	if !strings.HasPrefix(secret, TokenPrefix) {
		return false
	}
	presented := Digest(secret)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(digest)) == 1
}
