// Package assert holds the few test assertions the ledger packages
// share. Each failed assertion stops the test.
package assert

import (
	"reflect"

	"github.com/iov-one/swap/errors"
)

// Tester is the part of testing.TB the assertions use.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, map, slice, func or
// channel.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return
		}
	}
	// %+v prints the stack trace of a wrapped error.
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails unless got is of the kind of want. Two nil errors match.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails unless err holds exactly one error for the field,
// of the kind of want. A nil want asserts that the field has no error.
func FieldError(t Tester, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	for i, e := range errs {
		t.Logf("field %s error %d: %v", field, i+1, e)
	}
	switch {
	case want == nil && len(errs) != 0:
		t.Fatalf("want no %s error, got %d", field, len(errs))
	case want == nil:
	case len(errs) != 1:
		t.Fatalf("want one %s error, got %d", field, len(errs))
	case !want.Is(errs[0]):
		t.Fatalf("want %q for %s, got %q", want, field, errs[0])
	}
}
