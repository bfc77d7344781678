package app

import (
	"reflect"

	"github.com/iov-one/swap"
)

// Decorators is an ordered list of decorators waiting for the handler
// they wrap. The first decorator sees a request first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators struct {
	chain []swap.Decorator
}

// ChainDecorators starts a chain. Nil decorators are left out, so
// optional decorators can be passed unconditionally.
func ChainDecorators(ds ...swap.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new chain with ds appended.
func (d Decorators) Chain(ds ...swap.Decorator) Decorators {
	chain := make([]swap.Decorator, 0, len(d.chain)+len(ds))
	chain = append(chain, d.chain...)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

func isNilDecorator(d swap.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns h wrapped by the whole chain.
func (d Decorators) WithHandler(h swap.Handler) swap.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

// link runs one decorator around the rest of the chain.
type link struct {
	dec  swap.Decorator
	next swap.Handler
}

var _ swap.Handler = link{}

func (l link) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
