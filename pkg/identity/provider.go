package identity

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

// Provider turns validated claims into the identity forwarded upstream.
type Provider interface {
	Identify(claims jwt.MapClaims) (string, error)
}

type tokenProvider struct {
	claimName string
}

func NewTokenProvider(claimName string) *tokenProvider {
	return &tokenProvider{claimName}
}

func (tp *tokenProvider) Identify(claims jwt.MapClaims) (string, error) {
	claim, ok := claims[tp.claimName]
	if !ok || claim == nil {
		return "", fmt.Errorf("missing claim %s", tp.claimName)
	}

	claimString, ok := claim.(string)
	if !ok || claimString == "" {
		return "", fmt.Errorf("invalid value for claim %s", tp.claimName)
	}

	return claimString, nil
}

// IdentifyToken reads the claims of a validated token.
func IdentifyToken(p Provider, token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	return p.Identify(claims)
}
