package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of its message.
type Kind int

const (
	KindUnclassified Kind = iota
	KindInvalidInput
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unclassified"
	}
}

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ErrBusiness(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func Invalid(code, message string) error {
	return ErrBusiness(KindInvalidInput, code, message)
}

func Forbidden(code, message string) error {
	return ErrBusiness(KindForbidden, code, message)
}

func NotFoundErr(code, message string) error {
	return ErrBusiness(KindNotFound, code, message)
}

func Conflict(code, message string) error {
	return ErrBusiness(KindConflict, code, message)
}

// KindOf reports the kind of err, or KindUnclassified if err carries none.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnclassified
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
