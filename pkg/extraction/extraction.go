package extraction

import (
	"errors"
	"net/http"
)

// ErrNoToken means an extractor found nothing to extract. Any other error
// means a token was present but cannot be trusted.
var ErrNoToken = errors.New("unable to extract token")

type Extractor interface {
	Extract(*http.Request) (string, error)
}

type TokenExtractor struct {
	extractors []Extractor
}

func NewTokenExtractor(extractors ...Extractor) *TokenExtractor {
	return &TokenExtractor{
		extractors,
	}
}

// Extract returns the token of the first extractor that finds one. A
// rejected token stops the chain so that tampering is never hidden behind a
// fallback.
func (te *TokenExtractor) Extract(r *http.Request) (string, error) {
	for _, extractor := range te.extractors {
		token, err := extractor.Extract(r)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrNoToken) {
			return "", err
		}
	}
	return "", ErrNoToken
}
