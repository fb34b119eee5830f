package accounts

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the lowercase hex SHA-256 digest of plain.
//
// The server verifies logins against this exact form, so the digest is unsalted and must be
// applied exactly once before a password is stored.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
