// Package apperror defines the domain error kinds returned by the services.
// Transport code maps kinds to status codes; callers match them with errors.Is.
package apperror

import "errors"

// Kinds. Match with errors.Is(err, apperror.ErrNotFound).
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidState   = errors.New("invalid state")
)

// Error is a domain failure of a given kind with a caller-facing message.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the optional cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind error, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidRequest(message string) *Error { return New(ErrInvalidRequest, message) }
func NotFound(message string) *Error       { return New(ErrNotFound, message) }
func Conflict(message string) *Error       { return New(ErrConflict, message) }
func Forbidden(message string) *Error      { return New(ErrForbidden, message) }
func InvalidState(message string) *Error   { return New(ErrInvalidState, message) }

var kinds = []error{ErrInvalidRequest, ErrNotFound, ErrConflict, ErrForbidden, ErrInvalidState}

// KindOf returns the domain kind carried by err, or nil for internal failures.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName is the stable wire name of a kind.
func KindName(kind error) string {
	switch kind {
	case ErrInvalidRequest:
		return "InvalidRequest"
	case ErrNotFound:
		return "NotFound"
	case ErrConflict:
		return "Conflict"
	case ErrForbidden:
		return "Forbidden"
	case ErrInvalidState:
		return "InvalidState"
	default:
		return "Internal"
	}
}
