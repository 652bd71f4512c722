package port

import (
	"errors"
	"fmt"
)

var (
	// ErrBootstrap means no session could be opened; polling never starts.
	ErrBootstrap = errors.New("session bootstrap failed")
	// ErrTransport is a network or HTTP status failure.
	ErrTransport = errors.New("transport failed")
	// ErrParse means a response body could not be decoded.
	ErrParse = errors.New("unparsable response")
	// ErrMissingField means a decoded response lacked a required field.
	ErrMissingField = errors.New("missing response field")
)

// TransportError is returned when the service answers with a non-200 status.
type TransportError struct {
	StatusCode int
	Body       []byte
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, string(e.Body))
}

func (e *TransportError) Unwrap() error {
	return ErrTransport
}
