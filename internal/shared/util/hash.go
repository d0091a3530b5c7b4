package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// NamespaceKey hashes an owner id (a work instruction id) into a stable,
// path-safe directory or key prefix.
func NamespaceKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
