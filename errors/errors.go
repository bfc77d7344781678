package errors

import (
	"fmt"
	"reflect"
)

// Root errors of the ledger. Codes below 1000 are shared by all
// extensions, each extension registers its own codes from 1000 up.
var (
	// ErrUnauthorized is returned when a required signature is missing.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = Register(3, "not found")

	ErrInvalidMsg   = Register(4, "invalid message")
	ErrInvalidModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a key is taken already.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that correct code never reaches.
	ErrHuman = Register(7, "coding error")

	ErrEmpty        = Register(9, "value is empty")
	ErrInvalidState = Register(10, "invalid state")
	ErrInvalidType  = Register(11, "invalid type")

	// ErrInvalidAmount is returned for zero or otherwise unusable token
	// amounts.
	ErrInvalidAmount = Register(13, "invalid amount")
	ErrInvalidInput  = Register(14, "invalid input")

	// ErrOverflow is returned when a balance or supply would exceed
	// uint64.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(17, "database")

	// ErrPanic is set when a panic was recovered. Its details are never
	// shown outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry holds every registered root error by its code. Code 1 is
// kept for errors that carry no code.
var registry = map[uint32]*Error{
	internalABCICode: {code: internalABCICode, desc: internalABCILog},
}

// Register declares a new root error. Codes are unique, registering a
// code twice panics, so call it only from package level variables.
func Register(code uint32, description string) *Error {
	if e, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d is taken by %q", code, e.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors created at runtime wrap one of them, so
// that callers can test the kind with Is and clients receive its code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the code the error is registered with.
func (e Error) ABCICode() uint32 {
	return e.code
}

// Is reports whether err is of this kind: err is the root error itself,
// wraps it, or holds it among appended errors. A nil kind matches only
// nil errors.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	return walk(err, func(inner error) bool {
		return inner == e
	})
}

func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	val := reflect.ValueOf(err)
	return val.Kind() == reflect.Ptr && val.IsNil()
}
