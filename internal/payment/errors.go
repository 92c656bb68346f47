package payment

import (
	"errors"
	"fmt"
)

// Kind classifies a payment failure. Each kind maps to a distinct process
// exit code so orchestrating scripts can branch on failure class without
// parsing message text.
type Kind int

const (
	KindOther Kind = iota
	KindInsufficientBalance
	KindTransactionFailed
	KindNetwork
	KindMissingConfig
	KindInvalidConfig
	KindWalletNotFound
	KindInvalidArgument
)

// ExitCode returns the process exit code for this failure class.
func (k Kind) ExitCode() int {
	switch k {
	case KindInsufficientBalance:
		return 1
	case KindTransactionFailed:
		return 2
	case KindNetwork:
		return 3
	case KindMissingConfig:
		return 10
	case KindInvalidConfig:
		return 11
	case KindWalletNotFound:
		return 12
	case KindInvalidArgument:
		return 20
	default:
		return 1
	}
}

func (k Kind) String() string {
	switch k {
	case KindInsufficientBalance:
		return "insufficient balance"
	case KindTransactionFailed:
		return "transaction failed"
	case KindNetwork:
		return "network error"
	case KindMissingConfig:
		return "missing configuration"
	case KindInvalidConfig:
		return "invalid configuration"
	case KindWalletNotFound:
		return "wallet not found"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "error"
	}
}

// Error carries a failure class plus context. The class, not the message,
// drives the exit code.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
	// Detail optionally carries a structured, JSON-marshalable payload
	// (e.g. a missing-config prompt) for the diagnostic channel.
	Detail any
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapErr classifies an underlying error.
func WrapErr(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// ExitCode returns the exit code for any error: classified errors map via
// their kind, everything else falls back to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind.ExitCode()
	}
	return 1
}

// KindOf reports the failure class of an error, or KindOther for
// unclassified errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindOther
}
