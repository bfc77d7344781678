package store

import (
	"testing"

	"github.com/iov-one/swap/swaptest/assert"
)

// Suite checks the behaviour every ledger store must share. Each
// implementation runs it against its own constructor, see cache_test.go
// and leveldb/store_test.go.
type Suite struct {
	open func() (CacheableKVStore, func())
}

// NewSuite returns a suite that runs on stores made by open. The
// returned function releases the store.
func NewSuite(open func() (CacheableKVStore, func())) *Suite {
	return &Suite{open: open}
}

// GetSet checks that cached writes are visible only until discarded
// and reach the parent once written.
func (s *Suite) GetSet(t *testing.T) {
	base, cleanup := s.open()
	defer cleanup()

	mint, vault, offer := []byte("mint/A"), []byte("acct/vault"), []byte("offer/1")

	AssertGetHas(t, base, mint, nil)
	assert.Nil(t, base.Set(mint, []byte("6")))
	AssertGetHas(t, base, mint, []byte("6"))

	cache := base.CacheWrap()
	AssertGetHas(t, cache, mint, []byte("6"))
	assert.Nil(t, cache.Set(vault, []byte("40")))
	AssertGetHas(t, cache, vault, []byte("40"))
	AssertGetHas(t, base, vault, nil)
	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, vault, []byte("40"))

	dropped := base.CacheWrap()
	assert.Nil(t, dropped.Set(offer, []byte("open")))
	assert.Nil(t, dropped.Delete(vault))
	dropped.Discard()
	AssertGetHas(t, base, offer, nil)
	AssertGetHas(t, base, vault, []byte("40"))

	closing := base.CacheWrap()
	assert.Nil(t, closing.Delete(vault))
	AssertGetHas(t, closing, vault, nil)
	assert.Nil(t, closing.Write())
	AssertGetHas(t, base, vault, nil)
	AssertGetHas(t, base, mint, []byte("6"))
}

// CacheConflicts checks that a child overwrites and deletes the keys of
// its parent without touching the parent before it is written.
func (s *Suite) CacheConflicts(t *testing.T) {
	parent, cleanup := s.open()
	defer cleanup()

	assert.Nil(t, parent.Set([]byte("a"), []byte("maker")))
	assert.Nil(t, parent.Set([]byte("b"), []byte("taker")))

	child := parent.CacheWrap()
	assert.Nil(t, child.Set([]byte("a"), []byte("vault")))
	assert.Nil(t, child.Delete([]byte("b")))
	assert.Nil(t, child.Set([]byte("c"), []byte("offer")))

	grandchild := child.CacheWrap()
	assert.Nil(t, grandchild.Set([]byte("b"), []byte("again")))
	AssertGetHas(t, grandchild, []byte("b"), []byte("again"))
	grandchild.Discard()

	AssertGetHas(t, parent, []byte("a"), []byte("maker"))
	AssertGetHas(t, parent, []byte("b"), []byte("taker"))
	AssertGetHas(t, parent, []byte("c"), nil)
	AssertGetHas(t, child, []byte("a"), []byte("vault"))
	AssertGetHas(t, child, []byte("b"), nil)
	AssertGetHas(t, child, []byte("c"), []byte("offer"))

	assert.Nil(t, child.Write())
	AssertGetHas(t, parent, []byte("a"), []byte("vault"))
	AssertGetHas(t, parent, []byte("b"), nil)
	AssertGetHas(t, parent, []byte("c"), []byte("offer"))
}

// Iteration checks ranges in both directions over a child cache mixed
// with the keys of its parent.
func (s *Suite) Iteration(t *testing.T) {
	parent, cleanup := s.open()
	defer cleanup()

	for _, k := range []string{"a", "c", "e", "g"} {
		assert.Nil(t, parent.Set([]byte(k), []byte("parent "+k)))
	}
	child := parent.CacheWrap()
	assert.Nil(t, child.Set([]byte("b"), []byte("child b")))
	assert.Nil(t, child.Set([]byte("c"), []byte("child c")))
	assert.Nil(t, child.Delete([]byte("e")))
	assert.Nil(t, child.Delete([]byte("f")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []string
	}{
		"everything": {
			want: []string{"a=parent a", "b=child b", "c=child c", "g=parent g"},
		},
		"everything reversed": {
			reverse: true,
			want:    []string{"g=parent g", "c=child c", "b=child b", "a=parent a"},
		},
		"from a key": {
			start: []byte("c"),
			want:  []string{"c=child c", "g=parent g"},
		},
		"up to a key": {
			end:  []byte("c"),
			want: []string{"a=parent a", "b=child b"},
		},
		"bounded reversed": {
			start:   []byte("b"),
			end:     []byte("g"),
			reverse: true,
			want:    []string{"c=child c", "b=child b"},
		},
		"only deleted keys": {
			start: []byte("d"),
			end:   []byte("g"),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var it Iterator
			var err error
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			defer it.Close()

			var got []string
			for ; it.Valid(); it.Next() {
				got = append(got, string(it.Key())+"="+string(it.Value()))
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

// AssertGetHas fails the test unless key holds want, where nil means
// the key is absent.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}
