package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashUserKey turns a backend user id into the directory name used for that
// user's archived uploads, so raw ids never appear in object keys.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(userID)))
	return hex.EncodeToString(sum[:])
}
