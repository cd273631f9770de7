package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer. The core never picks a
// status code itself; it only says which kind of failure happened.
type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindAuthentication Kind = "AUTHENTICATION"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindNotFound       Kind = "NOT_FOUND"
	KindMalformedID    Kind = "MALFORMED_ID"
	KindConflict       Kind = "CONFLICT"
	KindInternal       Kind = "INTERNAL"
)

// Error is the typed error returned by every core component.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]string
	cause   error
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on Code so copies produced by WithCause/WithMessage still compare
// equal to the sentinel they were derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

func (e *Error) WithDetails(details map[string]string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err. Anything that is not an *Error is internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func Internal(code string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: "internal error", cause: cause}
}
