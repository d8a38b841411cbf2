// Package errs provides types and support related to web error
// handling.
package errs

import "errors"

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context. The wrapped message is safe to
// show to a client.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of
// the wrapped error. This is what will be shown in the services' logs.
func (t *Trusted) Error() string {
	return t.Err.Error()
}

// Unwrap exposes the wrapped error so callers can still test it with
// the errors package.
func (t *Trusted) Unwrap() error {
	return t.Err
}

// IsTrusted checks if an error of type Trusted exists in the chain.
func IsTrusted(err error) bool {
	var t *Trusted
	return errors.As(err, &t)
}

// GetTrusted returns the Trusted error from the chain.
func GetTrusted(err error) *Trusted {
	var t *Trusted
	if !errors.As(err, &t) {
		return nil
	}

	return t
}
