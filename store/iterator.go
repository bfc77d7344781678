package store

import "bytes"

// mergeIterator walks the entries of a cache and the iterator of the
// store below it as one sequence. A cached entry wins over the parent
// key it equals, and deleted entries are skipped together with the
// key they hide.
type mergeIterator struct {
	items     []*entry
	idx       int
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []*entry, parent Iterator, ascending bool) *mergeIterator {
	it := &mergeIterator{items: items, parent: parent, ascending: ascending}
	it.skipDeleted()
	return it
}

func (i *mergeIterator) Valid() bool {
	return i.cached() != nil || i.parentValid()
}

func (i *mergeIterator) Next() {
	e, fromParent := i.head()
	if e == nil && !fromParent {
		panic("iterator is exhausted")
	}
	if e != nil {
		i.idx++
	}
	if fromParent {
		i.parent.Next()
	}
	i.skipDeleted()
}

func (i *mergeIterator) Key() []byte {
	switch e, fromParent := i.head(); {
	case e != nil:
		return e.key
	case fromParent:
		return i.parent.Key()
	}
	panic("iterator is exhausted")
}

func (i *mergeIterator) Value() []byte {
	switch e, fromParent := i.head(); {
	case e != nil:
		return e.value
	case fromParent:
		return i.parent.Value()
	}
	panic("iterator is exhausted")
}

func (i *mergeIterator) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
}

// head returns the cached entry at the cursor, if it comes first, and
// whether the parent key at the cursor is consumed by the next step.
// Both are set when the two sides hold the same key.
func (i *mergeIterator) head() (*entry, bool) {
	e := i.cached()
	if !i.parentValid() {
		return e, false
	}
	if e == nil {
		return nil, true
	}
	cmp := bytes.Compare(e.key, i.parent.Key())
	if !i.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return e, false
	case cmp > 0:
		return nil, true
	default:
		return e, true
	}
}

func (i *mergeIterator) skipDeleted() {
	for {
		e, fromParent := i.head()
		if e == nil || !e.deleted {
			return
		}
		i.idx++
		if fromParent {
			i.parent.Next()
		}
	}
}

func (i *mergeIterator) cached() *entry {
	if i.idx < len(i.items) {
		return i.items[i.idx]
	}
	return nil
}

func (i *mergeIterator) parentValid() bool {
	return i.parent != nil && i.parent.Valid()
}
