package client

import (
	"errors"
	"fmt"
)

// ErrorKind tags why a call failed.
type ErrorKind int

const (
	// KindTransport covers request construction, dial, TLS and timeouts.
	KindTransport ErrorKind = iota + 1
	// KindStatus is a response with a status other than 200.
	KindStatus
	// KindMalformed is a 200 response whose body is not what was expected.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Operation names used in Error.Op.
const (
	OpLogin       = "login"
	OpListFlights = "list flights"
	OpGetFlight   = "get flight"
)

// Error is returned by every Client method.
type Error struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	URL        string
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
	case KindMalformed:
		return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
