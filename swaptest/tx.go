package swaptest

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Tx carries Msg, or fails with Err when the message is read.
type Tx struct {
	Msg swap.Msg
	Err error
}

var _ swap.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (swap.Msg, error) { return tx.Msg, tx.Err }
func (tx *Tx) Marshal() ([]byte, error)  { return nil, errors.Wrap(errors.ErrHuman, "test tx has no encoding") }
func (tx *Tx) Unmarshal([]byte) error    { return errors.Wrap(errors.ErrHuman, "test tx has no encoding") }

// Msg routes to RoutePath and encodes as Raw. Err fails validation and
// both encoding directions.
type Msg struct {
	RoutePath string
	Raw       []byte
	Err       error
}

var _ swap.Msg = (*Msg)(nil)

func (m *Msg) Path() string             { return m.RoutePath }
func (m *Msg) Validate() error          { return m.Err }
func (m *Msg) Marshal() ([]byte, error) { return m.Raw, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Raw = raw
	return m.Err
}
