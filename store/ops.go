package store

// Op is a single write, either a set or a delete of Key.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Apply performs the write on out.
func (o Op) Apply(out SetDeleter) error {
	if o.Delete {
		return out.Delete(o.Key)
	}
	return out.Set(o.Key, o.Value)
}

// Atomically runs fn on a cache of db when db can be cached, so that
// either all or none of the writes of fn reach db.
func Atomically(db KVStore, fn func(KVStore) error) error {
	c, ok := db.(CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := c.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// queue holds writes until they are applied to out.
type queue struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*queue)(nil)

func (q *queue) Set(key, value []byte) error {
	q.ops = append(q.ops, Op{Key: key, Value: value})
	return nil
}

func (q *queue) Delete(key []byte) error {
	q.ops = append(q.ops, Op{Key: key, Delete: true})
	return nil
}

func (q *queue) Write() error {
	for _, op := range q.ops {
		if err := op.Apply(q.out); err != nil {
			return err
		}
	}
	q.ops = nil
	return nil
}

// nothing is the store below an in-memory ledger.
type nothing struct{}

var _ ReadOnlyKVStore = nothing{}

func (nothing) Get([]byte) ([]byte, error) { return nil, nil }

func (nothing) Has([]byte) (bool, error) { return false, nil }

func (nothing) Iterator(_, _ []byte) (Iterator, error) {
	return newMergeIterator(nil, nil, true), nil
}

func (nothing) ReverseIterator(_, _ []byte) (Iterator, error) {
	return newMergeIterator(nil, nil, false), nil
}
