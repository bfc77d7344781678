package leveldb

import (
	"github.com/iov-one/swap"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// levelIterator adapts a leveldb iterator to swap.Iterator, stripping
// the data prefix from all keys.
type levelIterator struct {
	it        iterator.Iterator
	ascending bool
	valid     bool
}

var _ swap.Iterator = (*levelIterator)(nil)

func newIterator(db *leveldb.DB, start, end []byte, ascending bool) *levelIterator {
	it := db.NewIterator(dataRange(start, end), nil)
	li := &levelIterator{it: it, ascending: ascending}
	if ascending {
		li.valid = it.First()
	} else {
		li.valid = it.Last()
	}
	return li
}

func (i *levelIterator) Valid() bool {
	return i.valid
}

func (i *levelIterator) Next() {
	if !i.valid {
		panic("Advanced past the end!")
	}
	if i.ascending {
		i.valid = i.it.Next()
	} else {
		i.valid = i.it.Prev()
	}
}

// Key returns a copy of the current key, the underlying buffer is reused
// by leveldb.
func (i *levelIterator) Key() []byte {
	if !i.valid {
		panic("Advanced past the end!")
	}
	raw := i.it.Key()[len(dataPrefix):]
	key := make([]byte, len(raw))
	copy(key, raw)
	return key
}

func (i *levelIterator) Value() []byte {
	if !i.valid {
		panic("Advanced past the end!")
	}
	raw := i.it.Value()
	value := make([]byte, len(raw))
	copy(value, raw)
	return value
}

func (i *levelIterator) Close() {
	i.valid = false
	i.it.Release()
}
