package errors

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Frames of these functions are where an error was built, not where it
// happened.
var internalFrames = []string{
	"github.com/iov-one/swap/errors.Wrap",
	"github.com/iov-one/swap/errors.Wrapf",
	"github.com/iov-one/swap/errors.Field",
	"runtime.",
	"/_test/",
}

// Format prints the message for %s. %v appends the [file:line] the
// error comes from and %+v prints the whole stack before the message.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	stack := ownFrames(stackTrace(e))
	switch {
	case verb != 'v' || len(stack) == 0:
		fmt.Fprint(s, e.Error())
	case s.Flag('+'):
		fmt.Fprintf(s, "%+v\n%s", stack, e.Error())
	default:
		file, line := frameSource(stack[0])
		if i := strings.Index(file, "github.com/"); i >= 0 {
			file = file[i+len("github.com/"):]
		}
		fmt.Fprintf(s, "%s [%s:%d]", e.Error(), file, line)
	}
}

// ownFrames drops the frames of the error constructors from the top of
// the stack and the runtime and test runner frames from its bottom.
func ownFrames(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && frameIn(st[0], internalFrames...) {
		st = st[1:]
	}
	for len(st) > 1 && frameIn(st[len(st)-1], "runtime.", "testing.") {
		st = st[:len(st)-1]
	}
	return st
}

func frameIn(f errors.Frame, prefixes ...string) bool {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(fn.Name(), p) {
			return true
		}
	}
	return false
}

// frameSource mirrors how pkg/errors resolves a Frame, whose value is
// the return address of the call.
func frameSource(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

// stackTrace returns the first stack trace found on err or below it.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	walk(err, func(inner error) bool {
		t, ok := inner.(interface{ StackTrace() errors.StackTrace })
		if ok {
			st = t.StackTrace()
		}
		return ok
	})
	return st
}
