package entity

import (
	"errors"
	"fmt"
)

// ErrorKind tags a service-call failure at the transport boundary.
type ErrorKind int

const (
	// KindNetwork: transport failure, no server response.
	KindNetwork ErrorKind = iota
	// KindServer: non-2xx response, Detail carries the server message if present.
	KindServer
	// KindValidation: rejected client-side before any network call.
	KindValidation
	// KindUnauthorized: 401/403, the presented token is invalid or expired.
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "network"
	}
}

// Error is the normalized form of every external-service failure.
type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s error: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s error: status %d", e.Kind, e.Status)
	default:
		return fmt.Sprintf("%s error", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err when it is (or wraps) an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// UserMessage reduces any failure to a single displayable string:
// the server detail when present, else the fallback.
func UserMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}
