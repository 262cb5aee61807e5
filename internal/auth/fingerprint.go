package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// tokenFingerprint derives the session identifier stored in postgres.
// The raw token never leaves Redis.
func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
