package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Wrap adds a description to err. The innermost wrap records a stack
// trace. Wrapping nil returns nil, so the result of a call can be
// wrapped without a check.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to err. Call it with
// defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// Append joins errors into one, skipping nil values. It returns nil when
// nothing is left and the single error when only one is.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		switch m := e.(type) {
		case multiErr:
			res = append(res, m...)
		default:
			if !isNilErr(e) {
				res = append(res, e)
			}
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	}
	return res
}

type multiErr []error

func (m multiErr) Error() string {
	msg := fmt.Sprintf("%d errors occurred:", len(m))
	for _, e := range m {
		msg += "\n\t* " + e.Error()
	}
	return msg
}

// ABCICode returns the code of the first error.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

func (m multiErr) Unpack() []error {
	return m
}

type causer interface {
	Cause() error
}

type unpacker interface {
	Unpack() []error
}

// walk calls fn for err and each error below it, depth first, until fn
// returns true. It reports whether fn did.
func walk(err error, fn func(error) bool) bool {
	for !isNilErr(err) {
		if fn(err) {
			return true
		}
		switch e := err.(type) {
		case unpacker:
			for _, inner := range e.Unpack() {
				if walk(inner, fn) {
					return true
				}
			}
			return false
		case causer:
			err = e.Cause()
		default:
			return false
		}
	}
	return false
}
