package extraction

import (
	"fmt"
	"net/http"

	"github.com/caido/cookie-auth-proxy/pkg/cookies"
)

type cookieExtractor struct {
	config     cookies.Config
	cookieName string
}

// NewCookieExtractor reads the token from a signed cookie pair.
func NewCookieExtractor(config cookies.Config, cookieName string) *cookieExtractor {
	return &cookieExtractor{config, cookieName}
}

func (ce *cookieExtractor) Extract(r *http.Request) (string, error) {
	token, ok, err := cookies.FromRequest(ce.config, r).GetSigned(ce.cookieName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no cookie %s: %w", ce.cookieName, ErrNoToken)
	}
	return token, nil
}
