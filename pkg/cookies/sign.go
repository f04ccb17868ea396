package cookies

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// HashSuffix is appended to a cookie name to form its signature companion.
const HashSuffix = "_hash"

// Sign returns the lowercase hex HMAC-SHA1 of message keyed by secret.
func Sign(secret []byte, message string) string {
	mac := hmac.New(sha1.New, secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether digest is the signature of message under any of
// secrets. The comparison is exact and runs in constant time.
func Verify(secrets [][]byte, message, digest string) bool {
	for _, secret := range secrets {
		if hmac.Equal([]byte(Sign(secret, message)), []byte(digest)) {
			return true
		}
	}
	return false
}

func hashName(name string) string {
	return name + HashSuffix
}
