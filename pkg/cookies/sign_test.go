package cookies_test

import (
	"testing"

	"github.com/caido/cookie-auth-proxy/pkg/cookies"
	"github.com/stretchr/testify/assert"
)

const (
	testSecret = "asdfnaj2308sydfahli37flas36al9gaiufw"
	// HMAC-SHA1(testSecret, "foobar")
	fooBarDigest = "290afce0106d880d225fdc7a6358cb8db3ddd9cc"
)

func TestSignKnownDigest(t *testing.T) {
	assert.Equal(t, fooBarDigest, cookies.Sign([]byte(testSecret), "foobar"))
}

func TestSignUTF8Message(t *testing.T) {
	digest := cookies.Sign([]byte(testSecret), "nameværdi")

	assert.Equal(t, "3bbe0f6c62811ac7331af13390241a81cb8d9c3c", digest)
}

func TestSignDeterministic(t *testing.T) {
	first := cookies.Sign([]byte(testSecret), "session-token")
	second := cookies.Sign([]byte(testSecret), "session-token")

	assert.Equal(t, first, second)
	assert.Len(t, first, 40)
}

func TestSignDependsOnSecret(t *testing.T) {
	assert.NotEqual(t,
		cookies.Sign([]byte(testSecret), "foobar"),
		cookies.Sign([]byte("another-secret"), "foobar"),
	)
}

func TestVerify(t *testing.T) {
	secrets := [][]byte{[]byte("unrelated"), []byte(testSecret)}

	assert.True(t, cookies.Verify(secrets, "foobar", fooBarDigest))
	assert.False(t, cookies.Verify(secrets, "foobaz", fooBarDigest))
	assert.False(t, cookies.Verify(nil, "foobar", fooBarDigest))
}

func TestVerifyIsCaseSensitive(t *testing.T) {
	upper := "290AFCE0106D880D225FDC7A6358CB8DB3DDD9CC"

	assert.False(t, cookies.Verify([][]byte{[]byte(testSecret)}, "foobar", upper))
}
