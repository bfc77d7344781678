package orm

import (
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/swaptest/assert"
)

func TestIndexUpdate(t *testing.T) {
	// tens and units of a count, zero is left out
	digits := func(obj Object) ([]byte, error) {
		c := obj.Value().(*counter)
		if c.Count == 0 {
			return nil, nil
		}
		return []byte{byte(c.Count / 10), byte(c.Count % 10)}, nil
	}
	idx := NewIndex("digits", digits, false, func(pk []byte) []byte {
		return append([]byte("obj:"), pk...)
	})
	obj := func(key string, n int64) Object {
		return NewSimpleObj([]byte(key), &counter{Count: n})
	}

	db := store.MemStore()
	assert.Nil(t, idx.Update(db, nil, obj("a", 12)))
	assert.Nil(t, idx.Update(db, nil, obj("b", 15)))
	assert.Nil(t, idx.Update(db, nil, obj("c", 21)))
	assert.Nil(t, idx.Update(db, nil, obj("z", 0)))

	res, err := idx.Query(db, swap.PrefixQueryMod, []byte{1})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, []byte("obj:a"), res[0].Key)
	assert.Equal(t, []byte("obj:b"), res[1].Key)

	assert.Nil(t, idx.Update(db, obj("b", 15), obj("b", 21)))
	refs, err := idx.GetAt(db, []byte{2, 1})
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("b"), []byte("c")}, refs)
	refs, err = idx.GetAt(db, []byte{1, 5})
	assert.Nil(t, err)
	assert.Equal(t, 0, len(refs))

	if err := idx.Update(db, obj("a", 12), obj("x", 12)); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := idx.Update(db, nil, nil); !errors.ErrHuman.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := idx.Update(db, obj("d", 30), nil); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := idx.Query(db, "range", nil); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
}
