package orm

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/swaptest/assert"
)

// counter is a minimal model used across the package tests.
type counter struct {
	Count int64
}

func (c counter) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(c.Count))
	return raw, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrInvalidInput, "counter must be 8 bytes")
	}
	c.Count = int64(binary.BigEndian.Uint64(raw))
	return nil
}

func (c counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative count")
	}
	return nil
}

func (c *counter) Copy() CloneableData {
	return &counter{Count: c.Count}
}

func TestBucketName(t *testing.T) {
	obj := NewSimpleObj(nil, &counter{})

	assert.Panics(t, func() {
		// An invalid bucket name must crash.
		NewBucket("l33t", obj)
	})
}

func TestBucketCannotSaveInvalid(t *testing.T) {
	o := NewSimpleObj([]byte("mykey"), &counter{Count: -999})
	b := NewBucket("mybucket", o)

	db := store.MemStore()
	if err := b.Save(db, o); !errors.ErrInvalidState.Is(err) {
		t.Fatalf("invalid object must not save: %s", err)
	}
	if err := b.Save(db, NewSimpleObj(nil, &counter{})); !errors.ErrEmpty.Is(err) {
		t.Fatalf("object without a key must not save: %s", err)
	}
}

func TestBucketParseFailure(t *testing.T) {
	b := NewBucket("mybucket", NewSimpleObj(nil, &counter{}))
	if _, err := b.Parse([]byte("key"), []byte("bad")); !errors.ErrInvalidModel.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestBucketGetSave(t *testing.T) {
	o := NewSimpleObj([]byte("mykey"), &counter{Count: 848})
	b := NewBucket("mybucket", o)

	db := store.MemStore()
	assert.Nil(t, b.Save(db, o))

	res, err := b.Get(db, []byte("mykey"))
	assert.Nil(t, err)
	c, ok := res.Value().(*counter)
	if !ok {
		t.Fatalf("unexpected type: %T", res.Value())
	}
	assert.Equal(t, int64(848), c.Count)

	// Update the counter state. This is a reference so the data
	// represented by res will be updated as well.
	c.Count = 59
	assert.Nil(t, b.Save(db, res))

	res, err = b.Get(db, []byte("mykey"))
	assert.Nil(t, err)
	assert.Equal(t, int64(59), res.Value().(*counter).Count)

	ok, err = b.Has(db, []byte("mykey"))
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	assert.Nil(t, b.Delete(db, []byte("mykey")))
	res, err = b.Get(db, []byte("mykey"))
	assert.Nil(t, err)
	if res != nil {
		t.Fatalf("deleted object returned: %v", res)
	}
}

func TestBucketQuery(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, &counter{}))
	db := store.MemStore()

	for key, count := range map[string]int64{"aa": 1, "ab": 2, "b": 3} {
		assert.Nil(t, b.Save(db, NewSimpleObj([]byte(key), &counter{Count: count})))
	}

	qr := swap.NewQueryRouter()
	b.Register("counters", qr)
	h := qr.Handler("/counters")
	if h == nil {
		t.Fatal("bucket not registered")
	}

	res, err := h.Query(db, swap.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("cnts:ab"), res[0].Key)

	res, err = h.Query(db, swap.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, []byte("cnts:aa"), res[0].Key)

	res, err = h.Query(db, swap.KeyQueryMod, []byte("missing"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	if _, err := h.Query(db, "range", nil); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestBucketIndex(t *testing.T) {
	// index counters by their parity
	parity := func(obj Object) ([]byte, error) {
		c, ok := obj.Value().(*counter)
		if !ok {
			return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
		}
		return []byte{byte(c.Count % 2)}, nil
	}
	exact := func(obj Object) ([]byte, error) {
		return obj.Value().(*counter).Marshal()
	}
	b := NewBucket("cnts", NewSimpleObj(nil, &counter{})).
		WithIndex("parity", parity, false).
		WithIndex("exact", exact, true)

	db := store.MemStore()
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("one"), &counter{Count: 1})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("two"), &counter{Count: 2})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("three"), &counter{Count: 3})))

	odd, err := b.GetIndexed(db, "parity", []byte{1})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(odd))
	assert.Equal(t, []byte("one"), odd[0].Key())
	assert.Equal(t, []byte("three"), odd[1].Key())

	// unique constraint
	cache := db.CacheWrap()
	err = b.Save(cache, NewSimpleObj([]byte("uno"), &counter{Count: 1}))
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
	cache.Discard()

	// moving an object between index values
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("three"), &counter{Count: 4})))
	odd, err = b.GetIndexed(db, "parity", []byte{1})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(odd))
	even, err := b.GetIndexed(db, "parity", []byte{0})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(even))

	// deleting cleans up the index
	assert.Nil(t, b.Delete(db, []byte("one")))
	odd, err = b.GetIndexed(db, "parity", []byte{1})
	assert.Nil(t, err)
	assert.Equal(t, 0, len(odd))
	assert.Nil(t, b.Delete(db, []byte("one")))

	if _, err := b.GetIndexed(db, "unknown", nil); !ErrInvalidIndex.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}

	qr := swap.NewQueryRouter()
	b.Register("", qr)
	res, err := qr.Handler("/cnts/parity").Query(db, swap.KeyQueryMod, []byte{0})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, []byte("cnts:three"), res[0].Key)
}

func TestBucketIndexRegisteredTwice(t *testing.T) {
	idx := func(Object) ([]byte, error) { return nil, nil }
	b := NewBucket("cnts", NewSimpleObj(nil, &counter{})).WithIndex("x", idx, false)
	assert.Panics(t, func() { b.WithIndex("x", idx, true) })
}
