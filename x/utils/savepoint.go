package utils

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/store"
)

// Savepoint runs the rest of the chain on a cache of the store. The
// writes of a failed request are dropped, those of a successful one
// are kept. It is off for both phases until OnCheck or OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ swap.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator that does nothing yet.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, db, tx)
	}
	var res *swap.CheckResult
	err := store.Atomically(db, func(db swap.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, db, tx)
	}
	var res *swap.DeliverResult
	err := store.Atomically(db, func(db swap.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
