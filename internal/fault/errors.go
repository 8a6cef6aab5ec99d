package fault

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrScan                = errors.New("scan error")
	ErrMalformedDescriptor = errors.New("malformed descriptor")
	ErrIO                  = errors.New("i/o error")
	ErrPipeline            = errors.New("pipeline error")
)

// Error is a classified failure. Kind is one of the package sentinels and
// Err, when set, is the underlying cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}

	if e.Msg != "" {
		msg += ": " + e.Msg
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// Configurationf reports an invalid or contradictory input.
func Configurationf(format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Msg: fmt.Sprintf(format, args...)}
}

// Scan reports a classpath scan that could not produce any result.
func Scan(msg string, err error) error {
	return &Error{Kind: ErrScan, Msg: msg, Err: err}
}

// Malformed reports a descriptor at path that exists but cannot be used.
func Malformed(path string, err error) error {
	return &Error{Kind: ErrMalformedDescriptor, Op: "load " + path, Err: err}
}

// IO reports a failed filesystem operation on path.
func IO(op, path string, err error) error {
	return &Error{Kind: ErrIO, Op: op + " " + path, Err: err}
}

// Pipeline wraps a failure of an external collaborator.
func Pipeline(msg string, err error) error {
	return &Error{Kind: ErrPipeline, Msg: msg, Err: err}
}
