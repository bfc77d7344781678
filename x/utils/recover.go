package utils

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Recovery turns a panic below it into an ErrPanic, logged with the
// path of the request.
type Recovery struct{}

var _ swap.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx swap.Context, store swap.KVStore, tx swap.Tx, next swap.Checker) (_ *swap.CheckResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx swap.Context, store swap.KVStore, tx swap.Tx, next swap.Deliverer) (_ *swap.DeliverResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Deliver(ctx, store, tx)
}

func recoverTx(ctx swap.Context, tx swap.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	logger := swap.GetLogger(ctx)
	if tx != nil {
		logger = logger.With("path", swap.GetPath(tx))
	}
	logger.Error("recovered panic", "panic", r)
}
