// Copyright 2017 Dmitry Frank <mail@dmitryfrank.com>
// Licensed under the BSD, see LICENSE file for details.

package httphelper

import "github.com/juju/errors"

// internalError pairs an error which is safe to show to clients with the
// internal one, which is only logged.
type internalError struct {
	pubError error
	intError error
}

func (e *internalError) Error() string {
	return e.pubError.Error()
}

func (e *internalError) Cause() error {
	return errors.Cause(e.pubError)
}

func wrapInternalError(intError, pubError error) error {
	if _, ok := internalErrCheck(intError); ok {
		return errors.Annotate(intError, pubError.Error())
	}

	return &internalError{
		pubError: pubError,
		intError: intError,
	}
}

// internalErrCheck digs through juju annotations looking for a wrapped
// internal error.
func internalErrCheck(err error) (ierr error, ok bool) {
	cerr := err

	for {
		if cerr == nil {
			return err, false
		}

		if ie, ok := cerr.(*internalError); ok {
			return ie.intError, true
		}

		cerr2, ok := cerr.(*errors.Err)
		if !ok {
			return err, false
		}

		cerr = cerr2.Underlying()
	}
}

// InternalCause returns the cause of the internal error hidden in err, or
// the cause of err itself if there is none.
func InternalCause(err error) error {
	ierr, _ := internalErrCheck(err)
	return errors.Cause(ierr)
}

// ErrorStack is like errors.ErrorStack, but also includes the stack of the
// internal error, if any.
func ErrorStack(err error) string {
	st := ""
	if intError, ok := internalErrCheck(err); ok {
		st += errors.ErrorStack(intError) + "\n"
	}
	st += errors.ErrorStack(err)
	return st
}
