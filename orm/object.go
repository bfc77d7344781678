package orm

import (
	"reflect"

	"github.com/iov-one/swap/errors"
)

var _ Validater = (*SimpleObj)(nil)

// SimpleObj pairs a primary key with its model. Buckets use it as the
// prototype of their objects.
type SimpleObj struct {
	key   []byte
	value Model
}

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Value() Model { return o.value }
func (o SimpleObj) Key() []byte  { return o.key }

// Validate requires a key and a valid model.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Clone returns an object with the same key and a zero model of the
// same type, ready to be decoded into.
func (o *SimpleObj) Clone() Object {
	model := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) > 0 {
		key = append([]byte(nil), o.key...)
	}
	return &SimpleObj{key: key, value: model}
}
