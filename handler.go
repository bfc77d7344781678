package swap

import (
	"encoding/json"

	"github.com/iov-one/swap/errors"
)

// Handler runs the messages of one extension, like token transfers or
// offers.
type Handler interface {
	Checker
	Deliverer
}

// Checker decides if a transaction may enter the mempool.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction of a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around every handler, for example to verify signatures
// or to log. It calls next to continue.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry routes messages to handlers by the path of the message.
type Registry interface {
	Handle(Msg, Handler)
}

// Options is the app_state of the genesis file, one entry per
// extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the entry under key into obj. A missing entry
// leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw := o[key]
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "genesis %s: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs inits in order and stops at the first error.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (all initializers) FromGenesis(opts Options, db KVStore) error {
	for _, init := range all {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
