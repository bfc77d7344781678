package swap

import (
	"reflect"

	"github.com/iov-one/swap/errors"
)

// Msg is the request of a transaction, like making or taking an offer.
// Signatures and other authentication data live on the Tx around it.
type Msg interface {
	Persistent

	// Path routes the message to its handler, as in "offer/take". It
	// matches [0-9A-Za-z_\-/]+.
	Path() string

	// Validate checks the message on its own, before it is routed.
	Validate() error
}

// Marshaller encodes a value. It may reject a value that is invalid.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent values can be encoded and decoded. Unmarshal usually needs
// a pointer receiver, which is why Marshaller stands alone.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is a signed message as submitted to the chain.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message of tx, or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder reads a transaction from its wire form.
type TxDecoder func(raw []byte) (Tx, error)

// LoadMsg copies the message of tx into dst, which must point to the
// message type, and validates it.
func LoadMsg(tx Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "cannot get transaction message")
	case msg == nil:
		return errors.Wrap(errors.ErrInvalidMsg, "nil message")
	}

	out := reflect.ValueOf(dst)
	if out.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrInvalidType, "destination must be a pointer")
	}
	in := reflect.Indirect(reflect.ValueOf(msg))
	if !in.Type().AssignableTo(out.Elem().Type()) {
		return errors.Wrapf(errors.ErrInvalidType, "message %T cannot be loaded into %T", msg, dst)
	}
	out.Elem().Set(in)
	return errors.Wrap(msg.Validate(), "invalid message")
}
