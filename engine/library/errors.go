package library

import (
	"errors"
	"fmt"
)

// Raw failure tags. Program clients wrap transport failures with these so the gateway can
// classify them without knowing the transport.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrRejected       = errors.New("rejected by remote")
	ErrMalformed      = errors.New("malformed remote data")
)

type Kind int

const (
	KindUnknown Kind = iota
	KindWalletUnavailable
	KindAuthRejected
	KindNotConnected
	KindRemoteUnreachable
	KindTimeout
	KindInvalidInput
	KindInvalidState
	KindRemoteRejected
	KindRemoteMalformed
	KindAccountUninitialized
	KindCanceled
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown error",
	KindWalletUnavailable:    "wallet unavailable",
	KindAuthRejected:         "authorization rejected",
	KindNotConnected:         "wallet not connected",
	KindRemoteUnreachable:    "remote unreachable",
	KindTimeout:              "timeout",
	KindInvalidInput:         "invalid input",
	KindInvalidState:         "invalid state",
	KindRemoteRejected:       "rejected by remote",
	KindRemoteMalformed:      "malformed remote data",
	KindAccountUninitialized: "account not initialized",
	KindCanceled:             "cancelled",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the only error type handed to the presentation layer.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrTimeout) works on wrapped values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

var (
	ErrWalletUnavailable    = &Error{Kind: KindWalletUnavailable}
	ErrAuthRejected         = &Error{Kind: KindAuthRejected}
	ErrNotConnected         = &Error{Kind: KindNotConnected}
	ErrRemoteUnreachable    = &Error{Kind: KindRemoteUnreachable}
	ErrTimeout              = &Error{Kind: KindTimeout}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrInvalidState         = &Error{Kind: KindInvalidState}
	ErrRemoteRejected       = &Error{Kind: KindRemoteRejected}
	ErrRemoteMalformed      = &Error{Kind: KindRemoteMalformed}
	ErrAccountUninitialized = &Error{Kind: KindAccountUninitialized}
	ErrCanceled             = &Error{Kind: KindCanceled}
)

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
