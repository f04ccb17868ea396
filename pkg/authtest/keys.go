// Package authtest builds RSA keys, JWK sets and signed JWTs for tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
)

var (
	keysOnce    sync.Once
	privateKey  *rsa.PrivateKey
	attackerKey *rsa.PrivateKey
)

func loadKeys() {
	keysOnce.Do(func() {
		privateKey = generateKey()
		attackerKey = generateKey()
	})
}

func generateKey() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err.Error())
	}
	return key
}

// LoadPrivateKey returns the key the trusted issuer signs with.
func LoadPrivateKey() *rsa.PrivateKey {
	loadKeys()
	return privateKey
}

// LoadAttackerPrivateKey returns a key that is not published in any JWK set.
func LoadAttackerPrivateKey() *rsa.PrivateKey {
	loadKeys()
	return attackerKey
}

func LoadPublicKey() *rsa.PublicKey {
	return &LoadPrivateKey().PublicKey
}
