package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecureToken returns a URL-safe token built from n random bytes.
// The CSRF middleware hands these out per session.
func GenerateSecureToken(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
