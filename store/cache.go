package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/swap/errors"
)

// entry is a cached write. A deleted entry hides the key of the store
// below the cache.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}

// Cache keeps writes in a btree on top of a read-only store. Reads see
// the cached writes first. Write hands all cached entries, in key
// order, to the flush function given at creation.
type Cache struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	flush  func([]Op) error
}

var _ KVCacheWrap = (*Cache)(nil)

// NewCache returns an empty cache over parent. A nil flush makes the
// cache the final home of its data and Write a no-op.
func NewCache(parent ReadOnlyKVStore, flush func([]Op) error) *Cache {
	return newCache(parent, flush, btree.NewFreeList(btree.DefaultFreeListSize))
}

func newCache(parent ReadOnlyKVStore, flush func([]Op) error, free *btree.FreeList) *Cache {
	return &Cache{
		tree:   btree.NewWithFreeList(2, free),
		free:   free,
		parent: parent,
		flush:  flush,
	}
}

// MemStore returns a ledger store that lives only in memory.
func MemStore() CacheableKVStore {
	return NewCache(nothing{}, nil)
}

// CacheWrap stacks a new cache on this one. Writing it applies its
// entries here.
func (c *Cache) CacheWrap() KVCacheWrap {
	return newCache(c, c.apply, c.free)
}

func (c *Cache) apply(ops []Op) error {
	for _, op := range ops {
		if err := op.Apply(c); err != nil {
			return err
		}
	}
	return nil
}

// NewBatch returns a batch that writes into this cache.
func (c *Cache) NewBatch() Batch {
	return &queue{out: c}
}

// Write flushes the cached entries and empties the cache.
func (c *Cache) Write() error {
	if c.flush == nil {
		return nil
	}
	ops := make([]Op, 0, c.tree.Len())
	c.tree.Ascend(func(i btree.Item) bool {
		e := i.(*entry)
		ops = append(ops, Op{Key: e.key, Value: e.value, Delete: e.deleted})
		return true
	})
	if err := c.flush(ops); err != nil {
		return errors.Wrap(err, "flush cache")
	}
	c.Discard()
	return nil
}

// Discard drops all cached entries.
func (c *Cache) Discard() {
	for c.tree.DeleteMin() != nil {
	}
}

// Set caches a value for the key.
func (c *Cache) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(&entry{key: clone(key), value: clone(value)})
	return nil
}

// Delete caches the removal of the key.
func (c *Cache) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(&entry{key: clone(key), deleted: true})
	return nil
}

// Get returns the cached value, or the one of the parent store when the
// key was not written here.
func (c *Cache) Get(key []byte) ([]byte, error) {
	if e := c.lookup(key); e != nil {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

// Has reports whether Get would return a value.
func (c *Cache) Has(key []byte) (bool, error) {
	if e := c.lookup(key); e != nil {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c *Cache) lookup(key []byte) *entry {
	if i := c.tree.Get(&entry{key: key}); i != nil {
		return i.(*entry)
	}
	return nil
}

// Iterator walks [start, end) in ascending order over the cache and the
// parent store together.
func (c *Cache) Iterator(start, end []byte) (Iterator, error) {
	under, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(c.entries(start, end), under, true), nil
}

// ReverseIterator walks [start, end) in descending order over the cache
// and the parent store together.
func (c *Cache) ReverseIterator(start, end []byte) (Iterator, error) {
	under, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := c.entries(start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newMergeIterator(items, under, false), nil
}

// entries copies the cached entries within [start, end) out of the
// tree, so iterators do not hold the tree while the cache is written.
func (c *Cache) entries(start, end []byte) []*entry {
	var items []*entry
	collect := func(i btree.Item) bool {
		items = append(items, i.(*entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		c.tree.Ascend(collect)
	case start == nil:
		c.tree.AscendLessThan(&entry{key: end}, collect)
	case end == nil:
		c.tree.AscendGreaterOrEqual(&entry{key: start}, collect)
	default:
		c.tree.AscendRange(&entry{key: start}, &entry{key: end}, collect)
	}
	return items
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
