// Package wraperr defines a small wrapped-error type for fatal, out-of-band
// failures that don't go through the error sink. The workbench's own
// packages report such failures with fmt.Errorf and do not import it.
//
// Findings about the grammar itself (lexical, syntactic, structural,
// semantic, analysis) are never returned this way; they are reported through
// ebnferr.Sink per §7 of the specification.
package wraperr

import "fmt"

// wrappedError is a message plus an optional cause, implementing error and
// Unwrap. It is never constructed directly outside this package; use New,
// Newf, Wrap, or Wrapf.
type wrappedError struct {
	msg  string
	wrap error
}

func (e *wrappedError) Error() string {
	if e.wrap != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.wrap.Error())
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.wrap
}

// New returns an error with the given message.
func New(msg string) error {
	return &wrappedError{msg: msg}
}

// Newf returns an error with a formatted message.
func Newf(format string, a ...interface{}) error {
	return &wrappedError{msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an error with the given message that wraps cause.
func Wrap(cause error, msg string) error {
	return &wrappedError{msg: msg, wrap: cause}
}

// Wrapf returns an error with a formatted message that wraps cause.
func Wrapf(cause error, format string, a ...interface{}) error {
	return &wrappedError{msg: fmt.Sprintf(format, a...), wrap: cause}
}
