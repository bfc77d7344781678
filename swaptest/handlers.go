package swaptest

import "github.com/iov-one/swap"

// Calls counts the Check and Deliver calls of a mock.
type Calls struct {
	checks   int
	delivers int
}

func (c *Calls) CheckCallCount() int   { return c.checks }
func (c *Calls) DeliverCallCount() int { return c.delivers }
func (c *Calls) CallCount() int        { return c.checks + c.delivers }

// Handler is a swap.Handler returning the configured results, or the
// configured error when set.
type Handler struct {
	Calls
	CheckResult   swap.CheckResult
	CheckErr      error
	DeliverResult swap.DeliverResult
	DeliverErr    error
}

var _ swap.Handler = (*Handler)(nil)

func (h *Handler) Check(swap.Context, swap.KVStore, swap.Tx) (*swap.CheckResult, error) {
	h.checks++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(swap.Context, swap.KVStore, swap.Tx) (*swap.DeliverResult, error) {
	h.delivers++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// Decorator passes requests on to the next handler unless CheckErr or
// DeliverErr is set, in which case it fails without calling it.
type Decorator struct {
	Calls
	CheckErr   error
	DeliverErr error
}

var _ swap.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate returns h behind the decorators, the first one outermost.
func Decorate(h swap.Handler, ds ...swap.Decorator) swap.Handler {
	for i := len(ds) - 1; i >= 0; i-- {
		h = decorated{d: ds[i], next: h}
	}
	return h
}

type decorated struct {
	d    swap.Decorator
	next swap.Handler
}

func (d decorated) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	return d.d.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	return d.d.Deliver(ctx, db, tx, d.next)
}

// WriteHandler writes Key and Value to the store and then returns Err.
// It shows whether a failed request leaves state behind.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ swap.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(_ swap.Context, db swap.KVStore, _ swap.Tx) (*swap.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &swap.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(_ swap.Context, db swap.KVStore, _ swap.Tx) (*swap.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &swap.DeliverResult{}, nil
}

// PanicHandler panics with Value on every call.
type PanicHandler struct {
	Value interface{}
}

var _ swap.Handler = PanicHandler{}

func (h PanicHandler) Check(swap.Context, swap.KVStore, swap.Tx) (*swap.CheckResult, error) {
	panic(h.Value)
}

func (h PanicHandler) Deliver(swap.Context, swap.KVStore, swap.Tx) (*swap.DeliverResult, error) {
	panic(h.Value)
}
