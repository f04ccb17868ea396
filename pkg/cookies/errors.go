package cookies

import (
	"errors"
	"fmt"
)

var (
	// ErrSecretMissing is returned when signing or verification is attempted
	// without a configured secret.
	ErrSecretMissing = errors.New("cookies: secret is not configured")
	// ErrHashMissing is returned when a signed read finds the value but not
	// its "_hash" companion.
	ErrHashMissing = errors.New("cookies: hash missing")
	// ErrHashInvalid is returned when the stored hash does not match the value.
	// The value must not be trusted.
	ErrHashInvalid = errors.New("cookies: hash invalid")
)

// HashError reports a signature problem for a named cookie.
type HashError struct {
	Name string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("%v: cookie %q", e.Err, e.Name)
}

func (e *HashError) Unwrap() error {
	return e.Err
}
