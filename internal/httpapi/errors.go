// Package httpapi exposes the grammar workbench over HTTP: submit an EBNF
// source, get back its analysis summary, and retrieve any of the generated
// backend artifacts, all behind a single bearer-token-authenticated operator
// account.
package httpapi

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied password is incorrect")
	ErrNotFound       = errors.New("the requested grammar could not be found")
	ErrAlreadyExists  = errors.New("a grammar with the same id already exists")
	ErrDB             = errors.New("an error occurred with the store")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
)

// Error is a typed error that carries one or more causes, checkable with
// errors.Is against any of them.
//
// Error should not be used directly; call New to create one.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

func (e Error) Is(target error) bool {
	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// New creates an Error with the given message and causes. causes may be
// omitted; when present, errors.Is against any of them will report true.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

// WrapDB wraps err as a cause alongside ErrDB.
func WrapDB(msg string, err error) Error {
	return Error{msg: msg, cause: []error{err, ErrDB}}
}
