package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/swap/errors"
)

// recorder counts failed assertions instead of stopping the test.
type recorder struct {
	failed int
}

func (r *recorder) Helper()                       {}
func (r *recorder) Logf(string, ...interface{})   {}
func (r *recorder) Fatal(...interface{})          { r.failed++ }
func (r *recorder) Fatalf(string, ...interface{}) { r.failed++ }

func TestAssertions(t *testing.T) {
	var nilErr *errors.Error

	cases := map[string]struct {
		assert   func(Tester)
		wantFail bool
	}{
		"nil interface": {
			assert: func(t Tester) { Nil(t, nil) },
		},
		"nil pointer": {
			assert: func(t Tester) { Nil(t, nilErr) },
		},
		"nil slice": {
			assert: func(t Tester) { Nil(t, []byte(nil)) },
		},
		"zero is not nil": {
			assert:   func(t Tester) { Nil(t, 0) },
			wantFail: true,
		},
		"error is not nil": {
			assert:   func(t Tester) { Nil(t, errors.ErrEmpty) },
			wantFail: true,
		},
		"equal slices": {
			assert: func(t Tester) { Equal(t, []string{"a"}, []string{"a"}) },
		},
		"equal values of another type": {
			assert:   func(t Tester) { Equal(t, uint64(1), 1) },
			wantFail: true,
		},
		"panic": {
			assert: func(t Tester) { Panics(t, func() { panic("boom") }) },
		},
		"no panic": {
			assert:   func(t Tester) { Panics(t, func() {}) },
			wantFail: true,
		},
		"same error": {
			assert: func(t Tester) { IsErr(t, errors.ErrEmpty, errors.ErrEmpty) },
		},
		"wrapped error": {
			assert: func(t Tester) { IsErr(t, errors.ErrEmpty, errors.Wrap(errors.ErrEmpty, "maker")) },
		},
		"both nil": {
			assert: func(t Tester) { IsErr(t, nil, nil) },
		},
		"nil want": {
			assert:   func(t Tester) { IsErr(t, nil, errors.ErrEmpty) },
			wantFail: true,
		},
		"stdlib want": {
			assert:   func(t Tester) { IsErr(t, fmt.Errorf("empty"), errors.ErrEmpty) },
			wantFail: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var r recorder
			tc.assert(&r)
			if failed := r.failed > 0; failed != tc.wantFail {
				t.Fatalf("want failure %v, got %d failures", tc.wantFail, r.failed)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	amount := errors.Field("AmountA", errors.ErrInvalidAmount, "zero")

	cases := map[string]struct {
		err      error
		field    string
		want     *errors.Error
		wantFail bool
	}{
		"single field error": {
			err:   amount,
			field: "AmountA",
			want:  errors.ErrInvalidAmount,
		},
		"field without error": {
			err:   amount,
			field: "AssetB",
		},
		"unexpected field error": {
			err:      amount,
			field:    "AmountA",
			wantFail: true,
		},
		"field error of another kind": {
			err:      amount,
			field:    "AmountA",
			want:     errors.ErrEmpty,
			wantFail: true,
		},
		"two errors for one field": {
			err:      errors.Append(amount, errors.Field("AmountA", errors.ErrInvalidAmount, "again")),
			field:    "AmountA",
			want:     errors.ErrInvalidAmount,
			wantFail: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var r recorder
			FieldError(&r, tc.err, tc.field, tc.want)
			if failed := r.failed > 0; failed != tc.wantFail {
				t.Fatalf("want failure %v, got %d failures", tc.wantFail, r.failed)
			}
		})
	}
}
