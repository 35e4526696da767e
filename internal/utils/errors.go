package utils

import (
	"errors"
	"fmt"
)

// Kind classifies failures the operator can see.
type Kind string

const (
	KindCredentialsMissing Kind = "credentials_missing"
	KindAuthRejected       Kind = "auth_rejected"
	KindNetworkFailure     Kind = "network_failure"
	KindTimeout            Kind = "timeout"
	KindMalformedResponse  Kind = "malformed_response"
	KindScanNotResolved    Kind = "scan_not_resolved"
	KindScanUnparseable    Kind = "scan_unparseable"
	KindPermissionDenied   Kind = "permission_denied"
)

// Sentinels for errors.Is; matching is by Kind only.
var (
	ErrCredentialsMissing = &Error{Kind: KindCredentialsMissing}
	ErrAuthRejected       = &Error{Kind: KindAuthRejected}
	ErrNetworkFailure     = &Error{Kind: KindNetworkFailure}
	ErrTimeout            = &Error{Kind: KindTimeout}
	ErrMalformedResponse  = &Error{Kind: KindMalformedResponse}
	ErrScanNotResolved    = &Error{Kind: KindScanNotResolved}
	ErrScanUnparseable    = &Error{Kind: KindScanUnparseable}
	ErrPermissionDenied   = &Error{Kind: KindPermissionDenied}
)

type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status for KindAuthRejected, zero otherwise.
	Status int
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Rejected builds a KindAuthRejected error for a non-2xx response.
func Rejected(status int, message string) error {
	return &Error{Kind: KindAuthRejected, Message: message, Status: status}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage is the inline text shown to the operator for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindCredentialsMissing:
		return "Required details missing from storage."
	case KindAuthRejected:
		var e *Error
		errors.As(err, &e)
		if e.Status == 401 || e.Status == 403 {
			return "Login failed. Please check your credentials."
		}
		return fmt.Sprintf("Request failed with status code %d", e.Status)
	case KindNetworkFailure:
		return "Network Error"
	case KindTimeout:
		return "The server took too long to respond."
	case KindMalformedResponse:
		return "Unexpected response from server."
	case KindScanNotResolved:
		return "No matching attendee found for scanned ticket."
	case KindScanUnparseable:
		return "Scanned code is not a ticket."
	case KindPermissionDenied:
		return "No access to camera"
	}
	return err.Error()
}
