package cookies

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Reader holds the cookies of one request. It is immutable after NewReader.
type Reader struct {
	cfg       Config
	raw       map[string]string
	malformed []string
}

// NewReader parses a raw Cookie header of ";" separated name=value pairs.
// Names and values are trimmed, the last duplicate wins. Segments without
// "=" are skipped and reported by Malformed; blank segments are ignored.
func NewReader(cfg Config, header string) *Reader {
	r := &Reader{
		cfg: cfg,
		raw: make(map[string]string),
	}

	for _, part := range strings.Split(header, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		name, value, found := strings.Cut(part, "=")
		if !found {
			r.malformed = append(r.malformed, strings.TrimSpace(part))
			continue
		}
		r.raw[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return r
}

// FromRequest parses every Cookie header line of req.
func FromRequest(cfg Config, req *http.Request) *Reader {
	return NewReader(cfg, strings.Join(req.Header.Values("Cookie"), "; "))
}

// GetSigned returns the value of a signed cookie.
//
// ok is false with a nil error when the cookie is absent. When the value is
// present the companion hash must be present too (ErrHashMissing), a secret
// must be configured (ErrSecretMissing) and the hash must match
// (ErrHashInvalid).
func (r *Reader) GetSigned(name string) (string, bool, error) {
	value, ok := r.raw[name]
	if !ok {
		return "", false, nil
	}

	digest, ok := r.raw[hashName(name)]
	if !ok {
		return "", false, &HashError{Name: name, Err: ErrHashMissing}
	}

	if !r.cfg.HasSecret() {
		return "", false, ErrSecretMissing
	}

	if !Verify(r.cfg.verificationSecrets(), name+value, digest) {
		return "", false, &HashError{Name: name, Err: ErrHashInvalid}
	}

	return value, true, nil
}

// GetUnsigned returns a cookie value without looking at its hash.
func (r *Reader) GetUnsigned(name string) (string, bool) {
	value, ok := r.raw[name]
	return value, ok
}

// Malformed returns the segments that were skipped while parsing.
func (r *Reader) Malformed() []string {
	return append([]string(nil), r.malformed...)
}

// Len returns the number of distinct cookie names.
func (r *Reader) Len() int {
	return len(r.raw)
}

// String lists the cookie names. Values are left out so the result can be
// logged.
func (r *Reader) String() string {
	names := make([]string, 0, len(r.raw))
	for name := range r.raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("cookies%v", names)
}
