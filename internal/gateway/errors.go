package gateway

import (
	"errors"
	"fmt"
)

// ErrCredentialRejected reports that the backend refused the request's
// credentials. For authenticated requests the local session has already been
// cleared by the time this error reaches the caller.
var ErrCredentialRejected = errors.New("credentials rejected")

// StatusError carries a non-2xx backend response that is not a credential
// rejection. Message holds the backend's error payload when one was present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Message)
}

// TransportError reports that no response was obtained at all. The session is
// left untouched in this case.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode extracts the backend status from err, or 0 when err is not a
// StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
