package keycloak

import (
	"errors"
	"fmt"
	"net/http"
)

// CredentialsError signals that no access token could be obtained. It points
// at client misconfiguration (wrong secret, unreachable token endpoint)
// rather than at the resource being operated on.
type CredentialsError struct {
	Err error
}

func (e *CredentialsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("keycloak: acquire access token: %v", e.Err)
	}
	return "keycloak: acquire access token failed"
}

func (e *CredentialsError) Unwrap() error {
	return e.Err
}

// RequestError is any transport-level failure. Status is zero when the
// request never produced an HTTP response (network error); otherwise it is
// the upstream status code. Body carries the raw response body so callers
// such as CreatedID can read structured error payloads out of it.
type RequestError struct {
	Status  int
	Message string
	Body    []byte
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("keycloak: request failed: %s", e.Message)
	}
	return fmt.Sprintf("keycloak: request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// CreationError signals a failed create operation. Message carries the
// upstream errorMessage when the error body was parseable.
type CreationError struct {
	Message string
	Err     error
}

func (e *CreationError) Error() string {
	return "keycloak: " + e.Message
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a RequestError for a 404 response. This
// is the only status find-style methods translate into absence; every other
// failure propagates to the caller.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound
}
