package validation

import (
	"context"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caido/cookie-auth-proxy/pkg/authtest"

	"github.com/dgrijalva/jwt-go"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupValidationTest() (*rsa.PrivateKey, *rsa.PublicKey, jwt.MapClaims, *rsa.PrivateKey) {
	privateKey := authtest.LoadPrivateKey()
	publicKey := authtest.LoadPublicKey()
	attackerKey := authtest.LoadAttackerPrivateKey()
	claims := authtest.GetDefaultClaims()
	return privateKey, publicKey, claims, attackerKey
}

func getTokenValidator(publicKey *rsa.PublicKey) *TokenValidator {
	rawKeys := authtest.GetRawRS256Jwk(publicKey)
	keys, _ := jwk.ParseString(rawKeys)
	return NewTokenValidator(
		keys,
		[]string{authtest.Algorithm},
		authtest.Audience,
		authtest.Issuer,
	)
}

func assertCode(t *testing.T, expected ErrorCode, err error) {
	t.Helper()
	code, ok := CodeOf(err)
	if assert.True(t, ok, "expected a validation error, got %v", err) {
		assert.Equal(t, expected, code)
	}
}

func TestValidToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	rawToken := authtest.CreateTokenString(claims, privateKey)
	token, err := tokenValidator.Validate(rawToken)

	assert.Nil(t, err)
	assert.NotNil(t, token)
}

func TestAudienceListToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	claims["aud"] = []string{"https://other.testing.io/", authtest.Audience}
	rawToken := authtest.CreateTokenString(claims, privateKey)
	_, err := tokenValidator.Validate(rawToken)

	assert.Nil(t, err)
}

func TestBadIssuerToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	claims["iss"] = "bad_issuer"
	rawToken := authtest.CreateTokenString(claims, privateKey)
	_, err := tokenValidator.Validate(rawToken)

	assertCode(t, ErrorIssuer, err)
}

func TestMissingIssuerToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	delete(claims, "iss")
	rawToken := authtest.CreateTokenString(claims, privateKey)
	_, err := tokenValidator.Validate(rawToken)

	assertCode(t, ErrorIssuer, err)
}

func TestBadAudienceToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	claims["aud"] = "bad_audience"
	rawToken := authtest.CreateTokenString(claims, privateKey)
	_, err := tokenValidator.Validate(rawToken)

	assertCode(t, ErrorAudience, err)
}

func TestMissingAudienceToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	delete(claims, "aud")
	rawToken := authtest.CreateTokenString(claims, privateKey)
	_, err := tokenValidator.Validate(rawToken)

	assertCode(t, ErrorAudience, err)
}

func TestExpiredToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	claims["iat"] = time.Now().Unix() - 300
	claims["exp"] = time.Now().Unix() - 30
	rawToken := authtest.CreateTokenString(claims, privateKey)
	_, err := tokenValidator.Validate(rawToken)

	assertCode(t, ErrorExpired, err)
}

func TestBadSignatureToken(t *testing.T) {
	_, publicKey, claims, attackerKey := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	rawToken := authtest.CreateTokenString(claims, attackerKey)
	_, err := tokenValidator.Validate(rawToken)

	assertCode(t, ErrorValidation, err)
}

func TestBadAlgorithmToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	rawToken := authtest.CreateTokenStringWithAlg("HS256", claims, privateKey)
	_, err := tokenValidator.Validate(rawToken)

	assertCode(t, ErrorValidation, err)
}

func TestNoAlgorithmToken(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	rawToken := authtest.CreateTokenStringWithAlg("none", claims, privateKey)
	_, err := tokenValidator.Validate(rawToken)

	assertCode(t, ErrorValidation, err)
}

func TestExpiresAt(t *testing.T) {
	privateKey, publicKey, claims, _ := setupValidationTest()
	tokenValidator := getTokenValidator(publicKey)

	exp := time.Now().Add(time.Hour).Unix()
	claims["exp"] = exp
	token, err := tokenValidator.Validate(authtest.CreateTokenString(claims, privateKey))
	require.NoError(t, err)

	expiresAt, ok := ExpiresAt(token)

	assert.True(t, ok)
	assert.Equal(t, time.Unix(exp, 0).UTC(), expiresAt)
}

func TestExpiresAtMissingClaim(t *testing.T) {
	_, ok := ExpiresAt(&jwt.Token{Claims: jwt.MapClaims{}})

	assert.False(t, ok)
}

func TestLoadKeys(t *testing.T) {
	publicKey := authtest.LoadPublicKey()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(authtest.GetRawRS256Jwk(publicKey)))
	}))
	defer server.Close()

	keys, err := LoadKeys(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, keys.LookupKeyID(authtest.KeyId), 1)
}

func TestLoadKeysBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := LoadKeys(context.Background(), server.URL)

	assert.Error(t, err)
}

func TestLoadKeysMissingURL(t *testing.T) {
	_, err := LoadKeys(context.Background(), "")

	assert.Error(t, err)
}
