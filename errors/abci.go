package errors

import "fmt"

const (
	// SuccessABCICode is the code of a response without error.
	SuccessABCICode = 0

	// Errors without a registered code are reported as internal, with a
	// generic log unless in debug mode.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for err. The
// message of an internal error is only revealed in debug mode, which
// also adds the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from the code and log of an ABCI
// response. Registered codes map back to their root error, so
// ErrNotFound.Is works on results of a remote node.
func ABCIError(code uint32, log string) error {
	if e, ok := registry[code]; ok {
		return Wrap(e, log)
	}
	return Wrap(&Error{code: code, desc: "unknown error code"}, log)
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error with one, looking
// through wraps.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	code := internalABCICode
	walk(err, func(inner error) bool {
		c, ok := inner.(coder)
		if ok {
			code = c.ABCICode()
		}
		return ok
	})
	return code
}
