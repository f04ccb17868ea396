package validation

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/lestrrat-go/jwx/jwk"
)

// Validator checks a raw token and returns the parsed JWT.
type Validator interface {
	Validate(tokenString string) (*jwt.Token, error)
}

type TokenValidator struct {
	keys       *jwk.Set
	algorithms []string
	audience   string
	issuer     string
}

func NewTokenValidator(keys *jwk.Set, algorithms []string, audience string, issuer string) *TokenValidator {
	return &TokenValidator{
		keys,
		algorithms,
		audience,
		issuer,
	}
}

// LoadKeys fetches the JWK set published at url.
func LoadKeys(ctx context.Context, url string) (*jwk.Set, error) {
	if url == "" {
		return nil, errors.New("a JWK URL is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch JWK: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch JWK: unexpected status %d", response.StatusCode)
	}

	data, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read JWK: %w", err)
	}

	set, err := jwk.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse JWK: %w", err)
	}

	return set, nil
}

func (tv *TokenValidator) Validate(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, tv.getTokenAssociatedPublicKey)
	if err != nil {
		var validationError *jwt.ValidationError
		if !errors.As(err, &validationError) {
			return nil, err
		}

		errorMessage := validationError.Inner
		errorCode := validationError.Errors
		if errorCode&jwt.ValidationErrorExpired != 0 {
			errorM := fmt.Sprintf("TOKEN EXPIRED : error_message=\"%v\" error_code=%v", errorMessage, errorCode)
			return nil, &Error{errorM, ErrorExpired}
		}
		errorM := fmt.Sprintf("VALIDATION ERROR : error_message=\"%v\" error_code=%v", errorMessage, errorCode)
		return nil, &Error{errorM, ErrorValidation}
	}

	// Ensure validity and claims (https://auth0.com/docs/api-auth/tutorials/verify-access-token)
	if !token.Valid {
		return token, &Error{"Token is invalid", ErrorToken}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return token, &Error{"unexpected claims type", ErrorToken}
	}

	if !audienceMatches(claims["aud"], tv.audience) {
		return token, &Error{"audience does not match", ErrorAudience}
	}

	if tokenIssuer, _ := claims["iss"].(string); tokenIssuer != tv.issuer {
		return token, &Error{"issuer does not match", ErrorIssuer}
	}

	return token, nil
}

// ExpiresAt returns the "exp" claim of a validated token.
func ExpiresAt(token *jwt.Token) (time.Time, bool) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, false
	}

	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0).UTC(), true
	case int64:
		return time.Unix(exp, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

func audienceMatches(claim interface{}, audience string) bool {
	switch aud := claim.(type) {
	case string:
		return aud == audience
	case []interface{}:
		for _, iaud := range aud {
			if s, ok := iaud.(string); ok && s == audience {
				return true
			}
		}
	}
	return false
}

func (tv *TokenValidator) getTokenAssociatedPublicKey(token *jwt.Token) (interface{}, error) {
	// Verify ALG: it should at least be not "none". We decided to restrict it further to a set of trusted algorithms.
	// See vulnerability: https://auth0.com/blog/critical-vulnerabilities-in-json-web-token-libraries/
	algHeader, _ := token.Header["alg"].(string)
	if algHeader == "" {
		return nil, &Error{"token ALG header is nil", ErrorNilAlg}
	}
	if !stringInSlice(algHeader, tv.algorithms) {
		errorMessage := fmt.Sprintf("algorithm %v is not in accepted algoritmns (%v)", algHeader, tv.algorithms)
		return nil, &Error{errorMessage, ErrorUnsupportedAlg}
	}

	kidHeader, _ := token.Header["kid"].(string)
	if kidHeader == "" {
		return nil, &Error{"token KID header is nil", ErrorNilKid}
	}

	keys := tv.keys.LookupKeyID(kidHeader)
	if len(keys) == 0 {
		return nil, errors.New("failed to lookup key")
	}

	// Use the first key
	key, err := keys[0].Materialize()
	if err != nil {
		return nil, fmt.Errorf("failed to generate public key: %s", err)
	}

	publicKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("key is not an RSA public key")
	}

	return publicKey, nil
}

func stringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}
