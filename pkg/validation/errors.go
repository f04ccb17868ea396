package validation

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	ErrorToken ErrorCode = iota
	ErrorAudience
	ErrorIssuer
	ErrorExpired
	ErrorValidation
	ErrorNilAlg
	ErrorNilKid
	ErrorUnsupportedAlg
)

var codeNames = map[ErrorCode]string{
	ErrorToken:          "token",
	ErrorAudience:       "audience",
	ErrorIssuer:         "issuer",
	ErrorExpired:        "expired",
	ErrorValidation:     "validation",
	ErrorNilAlg:         "nil_alg",
	ErrorNilKid:         "nil_kid",
	ErrorUnsupportedAlg: "unsupported_alg",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code_%d", int(c))
}

type Error struct {
	Message string
	Code    ErrorCode
}

func (e *Error) Error() string {
	return fmt.Sprintf("Code [%v] : %v", e.Code, e.Message)
}

// CodeOf returns the code of a validation error anywhere in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var validationErr *Error
	if errors.As(err, &validationErr) {
		return validationErr.Code, true
	}
	return 0, false
}
