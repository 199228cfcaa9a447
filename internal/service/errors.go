package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Callers match them with errors.Is.
var (
	ErrValidation             = errors.New("validation error")
	ErrConflict               = errors.New("conflict")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrNotFound               = errors.New("not found")
	ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")
	ErrRateLimited            = errors.New("rate limited")
	ErrMailDeliveryFailed     = errors.New("mail delivery failed")
	ErrStoreUnavailable       = errors.New("store unavailable")
)

// publicError pairs an error kind with a message that may be shown to clients.
type publicError struct {
	kind error
	msg  string
}

func (e *publicError) Error() string { return e.msg }
func (e *publicError) Unwrap() error { return e.kind }

func newPublicError(kind error, msg string) error {
	return &publicError{kind: kind, msg: msg}
}

// PublicMessage returns the client-facing message attached to err, if any.
func PublicMessage(err error) string {
	var pe *publicError
	if errors.As(err, &pe) {
		return pe.msg
	}
	return ""
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

// internalError reports a failed hasher or signer. Those sit on the credential
// store path and share its 500 kind.
func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
