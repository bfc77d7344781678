package app

import (
	"sync"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// CommitStore keeps one cache for delivered and one for checked
// transactions over the committed ledger. Delivered writes reach disk on
// Commit, checked writes are always dropped.
type CommitStore struct {
	mu        sync.Mutex
	committed swap.CommitKVStore
	deliver   swap.KVCacheWrap
	check     swap.KVCacheWrap
}

// NewCommitStore loads the last committed version of store.
func NewCommitStore(store swap.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs, nil
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the last committed height and hash.
func (cs *CommitStore) CommitInfo() (swap.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit writes the delivered block to disk and starts both caches over.
func (cs *CommitStore) Commit() (swap.CommitID, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.deliver.Write(); err != nil {
		return swap.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() swap.CacheableKVStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.check
}

func (cs *CommitStore) DeliverStore() swap.CacheableKVStore {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.deliver
}

// QueryStore returns a read view of the last committed state.
func (cs *CommitStore) QueryStore() swap.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// chainIDKey lives outside every bucket, which need at least three
// letters before their colon.
const chainIDKey = "_sw:chainID"

func loadChainID(db swap.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores the chain id once. A chain id cannot change after
// genesis.
func saveChainID(db swap.KVStore, chainID string) error {
	if !swap.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	switch has, err := db.Has([]byte(chainIDKey)); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case has:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return errors.Wrap(db.Set([]byte(chainIDKey), []byte(chainID)), "save chain id")
}
