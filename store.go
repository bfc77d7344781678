package swap

// ReadOnlyKVStore reads the ledger. Keys are never nil.
type ReadOnlyKVStore interface {
	// Get returns nil if the key is absent.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil bound
	// is open. The range must not be written while the iterator is in
	// use.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks the same range as Iterator from the end.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter writes the ledger. Stores and batches both implement it.
// The store may keep the slices it is handed, so callers must not
// modify them afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore reads and writes the ledger.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch queues writes until Write applies them together.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator is a cursor over a key range:
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Close()
//	for ; it.Valid(); it.Next() {
//		key, value := it.Key(), it.Value()
//	}
//
// Next, Key and Value panic once Valid returns false. The returned
// slices must not be modified.
type Iterator interface {
	Valid() bool
	Next()
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can stack a cache on itself, to group writes that
// must land together or not at all.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a cache of writes over another store. Reads see the
// cached writes. Write applies them below, Discard drops them.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent ledger. Writes go through a cache and
// become durable, as a new version, on Commit.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)

	// LoadLatestVersion opens the last complete commit, even after a
	// crash during a later one.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID names a committed version by height and app hash.
type CommitID struct {
	Version int64
	Hash    []byte
}
