package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure surfaced by the core unwraps to exactly one of these.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrRejected           = errors.New("request rejected")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrUnavailable        = errors.New("service unavailable")
)

// Chat-specific failures.
var (
	ErrEmptyMessage         = fmt.Errorf("%w: message is empty", ErrValidation)
	ErrMessageTooLong       = fmt.Errorf("%w: message exceeds %d characters", ErrValidation, MaxMessageLength)
	ErrSendInFlight         = errors.New("a message is already being sent")
	ErrConversationMismatch = fmt.Errorf("%w: conversation is loaded for another character", ErrValidation)
	ErrViewClosed           = errors.New("conversation view closed")
)

// MaxMessageLength is the longest message the remote service accepts, in characters.
const MaxMessageLength = 2000

// RemoteError describes a call the remote service answered with a failure.
type RemoteError struct {
	Op     string
	Status int
	Detail string
	Kind   error
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Kind, e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Kind }

// ErrorKind is the coarse category a view needs to decide how to render a failure.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindResource       ErrorKind = "resource"
	KindUnavailable    ErrorKind = "unavailable"
)

// Classify maps err onto the error taxonomy.
//
//	validation     → rejected locally, nothing was sent
//	authentication → login/register refused
//	authorization  → token no longer valid, or the call is not permitted; go back to login
//	resource       → the remote service refused or mangled the operation
//	unavailable    → the remote service could not be reached
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials):
		return KindAuthentication
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrForbidden):
		return KindAuthorization
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	default:
		return KindResource
	}
}

// Detail returns the server-provided message for err, or its text when there is none.
func Detail(err error) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Detail != "" {
		return re.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
