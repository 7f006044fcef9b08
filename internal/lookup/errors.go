package lookup

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error kinds. Adapters never return these to their callers; Handle turns
// them into sentences. Lookup methods return them wrapped.
var (
	ErrEntityNotRecognized = errors.New("lookup: entity not recognized")
	ErrTransport           = errors.New("lookup: transport failure")
	ErrMalformedResponse   = errors.New("lookup: unexpected response")
	ErrMissingField        = errors.New("lookup: missing field")
)

// FailureClass names the kind of transport failure. It is shown to the
// user inside the "erro de conexão" sentence.
type FailureClass string

// Transport failure classes.
const (
	ClassTimeout         FailureClass = "Timeout"
	ClassConnectionError FailureClass = "ConnectionError"
	ClassHTTPError       FailureClass = "HTTPError"
	ClassInvalidJSON     FailureClass = "InvalidJSON"
)

// TransportError reports a failed call to a remote API.
type TransportError struct {
	Class  FailureClass
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("lookup: %s from %s: HTTP %d", e.Class, e.URL, e.Status)
	}
	return fmt.Sprintf("lookup: %s from %s: %v", e.Class, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ClassOf returns the failure class carried by err, or ClassConnectionError
// when err is not a TransportError.
func ClassOf(err error) FailureClass {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Class
	}
	return ClassConnectionError
}

// classifyRequestError derives the failure class of an http.Client error.
func classifyRequestError(err error) FailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}
	return ClassConnectionError
}
