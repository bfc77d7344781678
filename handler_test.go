package swap_test

import (
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/swaptest/assert"
)

func TestReadOptions(t *testing.T) {
	opts := swap.Options{
		"name":  []byte(`"swap"`),
		"count": []byte(`17`),
	}

	var name string
	assert.Nil(t, opts.ReadOptions("name", &name))
	assert.Equal(t, "swap", name)

	var missing int
	assert.Nil(t, opts.ReadOptions("missing", &missing))
	assert.Equal(t, 0, missing)

	var wrong string
	assert.IsErr(t, errors.ErrInvalidInput, opts.ReadOptions("count", &wrong))
}

type recordingInit struct {
	key   string
	err   error
	calls *[]string
}

func (r recordingInit) FromGenesis(opts swap.Options, kv swap.KVStore) error {
	*r.calls = append(*r.calls, r.key)
	if r.err != nil {
		return r.err
	}
	var value string
	if err := opts.ReadOptions(r.key, &value); err != nil {
		return err
	}
	return kv.Set([]byte(r.key), []byte(value))
}

func TestChainInitializers(t *testing.T) {
	opts := swap.Options{
		"first":  []byte(`"one"`),
		"second": []byte(`"two"`),
	}

	var calls []string
	kv := store.MemStore()
	init := swap.ChainInitializers(
		recordingInit{key: "first", calls: &calls},
		recordingInit{key: "second", calls: &calls},
	)
	assert.Nil(t, init.FromGenesis(opts, kv))
	assert.Equal(t, []string{"first", "second"}, calls)

	got, err := kv.Get([]byte("second"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("two"), got)

	calls = nil
	failing := swap.ChainInitializers(
		recordingInit{key: "first", calls: &calls, err: errors.ErrHuman},
		recordingInit{key: "second", calls: &calls},
	)
	assert.IsErr(t, errors.ErrHuman, failing.FromGenesis(opts, kv))
	assert.Equal(t, []string{"first"}, calls)
}
