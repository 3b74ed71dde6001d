package auth

import (
	"errors"
	"fmt"
)

// SessionError means the identity provider rejected or could not
// produce a session for the current user.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// IsSessionError reports whether err is (or wraps) a *SessionError.
func IsSessionError(err error) bool {
	var se *SessionError
	return errors.As(err, &se)
}

// ExchangeError means the federation exchange for temporary
// credentials failed.
type ExchangeError struct {
	Err error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("credential exchange: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// IsExchangeError reports whether err is (or wraps) an *ExchangeError.
func IsExchangeError(err error) bool {
	var ee *ExchangeError
	return errors.As(err, &ee)
}

// NotAuthenticatedError is returned by operations that require an
// authenticated session when there is none.
type NotAuthenticatedError struct{}

func (*NotAuthenticatedError) Error() string { return "not authenticated" }

// IsNotAuthenticated reports whether err is (or wraps) a
// *NotAuthenticatedError.
func IsNotAuthenticated(err error) bool {
	var ne *NotAuthenticatedError
	return errors.As(err, &ne)
}
