package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err as the problem of one field of a message or model,
// named the Go way, with dots for nested fields ("Offer.AssetB").
// It returns nil for a nil err.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &fieldError{
		parent: err,
		field:  name,
		desc:   fmt.Sprintf(description, args...),
	}
}

// AppendField adds the problem of a field to errs. A nil err leaves
// errs as is.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

// FieldErrors returns the errors recorded for the named field.
func FieldErrors(err error, name string) []error {
	var res []error
	walk(err, func(inner error) bool {
		if f, ok := inner.(*fieldError); ok && f.field == name {
			res = append(res, inner)
		}
		return false
	})
	return res
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}
