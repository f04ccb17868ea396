package authtest

import (
	"net/http"
	"net/http/httptest"

	"github.com/dgrijalva/jwt-go"
)

func CreateTokenString(c jwt.Claims, key interface{}) string {
	return CreateTokenStringWithAlg("RS256", c, key)
}

func CreateTokenStringWithAlg(alg string, c jwt.Claims, key interface{}) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
	token.Header["kid"] = KeyId
	token.Header["alg"] = alg
	s, e := token.SignedString(key)

	if e != nil {
		panic(e.Error())
	}

	return s
}

// CreateDefaultToken signs GetDefaultClaims with the trusted key.
func CreateDefaultToken() string {
	return CreateTokenString(GetDefaultClaims(), LoadPrivateKey())
}

// NewJWKServer serves the JWK set of the trusted key. Callers close it.
func NewJWKServer() *httptest.Server {
	jwk := GetRawRS256Jwk(LoadPublicKey())
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(jwk))
	}))
}
