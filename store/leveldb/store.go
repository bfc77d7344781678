/*
Package leveldb provides the persistent commit store of the ledger.

All application data written in a block is staged in memory and flushed
to disk with a single atomic leveldb batch on Commit, together with the
new version and app hash. A crash can therefore never persist part of a
block.
*/
package leveldb

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	dataPrefix  = []byte("d/")
	versionKey  = []byte("m/version")
	appHashKey  = []byte("m/apphash")
	syncedWrite = &opt.WriteOptions{Sync: true}
)

// CommitStore is a swap.CommitKVStore backed by leveldb.
type CommitStore struct {
	db *leveldb.DB

	mu      sync.Mutex
	pending []store.Op
	latest  swap.CommitID
}

var _ swap.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens (or creates) a leveldb database in the given
// directory and loads its latest version.
func NewCommitStore(path string) (*CommitStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", path, err)
	}
	return newCommitStore(db)
}

// NewMemCommitStore returns a commit store that keeps everything in
// memory. Useful for tests that want the production storage semantics
// without touching the disk.
func NewMemCommitStore() (*CommitStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open memory storage: %s", err)
	}
	return newCommitStore(db)
}

func newCommitStore(db *leveldb.DB) (*CommitStore, error) {
	s := &CommitStore{db: db}
	if err := s.LoadLatestVersion(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *CommitStore) Close() error {
	return s.db.Close()
}

// Get returns the value at last committed state.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	return reader{db: s.db}.Get(key)
}

// CacheWrap returns a cache on top of the last committed state. Writing
// the cache stages its operations until the next Commit.
func (s *CommitStore) CacheWrap() swap.KVCacheWrap {
	return store.NewCache(reader{db: s.db}, s.stage)
}

// Commit writes all staged operations together with the next version
// and app hash to disk in one atomic batch.
func (s *CommitStore) Commit() (swap.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := nextAppHash(s.latest.Hash, s.pending)
	if err != nil {
		return swap.CommitID{}, err
	}
	version := s.latest.Version + 1

	batch := new(leveldb.Batch)
	for _, op := range s.pending {
		if op.Delete {
			batch.Delete(dataKey(op.Key))
		} else {
			batch.Put(dataKey(op.Key), op.Value)
		}
	}
	batch.Put(versionKey, encodeVersion(version))
	batch.Put(appHashKey, hash)

	if err := s.db.Write(batch, syncedWrite); err != nil {
		return swap.CommitID{}, errors.Wrapf(errors.ErrDatabase, "commit version %d: %s", version, err)
	}
	s.pending = nil
	s.latest = swap.CommitID{Version: version, Hash: hash}
	return s.latest, nil
}

// LoadLatestVersion reads the last committed version from disk and
// drops anything staged but not committed.
func (s *CommitStore) LoadLatestVersion() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.db.Get(versionKey, nil)
	switch {
	case err == leveldb.ErrNotFound:
		s.latest = swap.CommitID{}
		s.pending = nil
		return nil
	case err != nil:
		return errors.Wrapf(errors.ErrDatabase, "read version: %s", err)
	}
	if len(raw) != 8 {
		return errors.Wrap(errors.ErrDatabase, "corrupted version")
	}
	hash, err := s.db.Get(appHashKey, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "read app hash: %s", err)
	}
	s.latest = swap.CommitID{
		Version: int64(binary.BigEndian.Uint64(raw)),
		Hash:    hash,
	}
	s.pending = nil
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (swap.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, nil
}

// stage keeps the writes of a root cache until the next Commit.
func (s *CommitStore) stage(ops []store.Op) error {
	s.mu.Lock()
	s.pending = append(s.pending, ops...)
	s.mu.Unlock()
	return nil
}

// nextAppHash chains the previous hash with all operations of a block,
// so the hash commits to the full history of writes.
func nextAppHash(prev []byte, ops []store.Op) ([]byte, error) {
	h := sha256.New()
	enc := bin.NewBorshEncoder(h)
	if err := enc.WriteBytes(prev, true); err != nil {
		return nil, errors.Wrap(err, "hash previous")
	}
	for _, op := range ops {
		if err := enc.WriteBool(!op.Delete); err != nil {
			return nil, errors.Wrap(err, "hash op kind")
		}
		if err := enc.WriteBytes(op.Key, true); err != nil {
			return nil, errors.Wrap(err, "hash key")
		}
		if err := enc.WriteBytes(op.Value, true); err != nil {
			return nil, errors.Wrap(err, "hash value")
		}
	}
	return h.Sum(nil), nil
}

func encodeVersion(v int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(v))
	return raw
}

func dataKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(dataPrefix)+len(key)), dataPrefix...), key...)
}

// reader exposes the committed application data of the database.
type reader struct {
	db *leveldb.DB
}

var _ swap.ReadOnlyKVStore = reader{}

func (r reader) Get(key []byte) ([]byte, error) {
	val, err := r.db.Get(dataKey(key), nil)
	switch {
	case err == leveldb.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	return val, nil
}

func (r reader) Has(key []byte) (bool, error) {
	ok, err := r.db.Has(dataKey(key), nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %s", err)
	}
	return ok, nil
}

func (r reader) Iterator(start, end []byte) (swap.Iterator, error) {
	return newIterator(r.db, start, end, true), nil
}

func (r reader) ReverseIterator(start, end []byte) (swap.Iterator, error) {
	return newIterator(r.db, start, end, false), nil
}

func dataRange(start, end []byte) *util.Range {
	rng := util.BytesPrefix(dataPrefix)
	if start != nil {
		rng.Start = dataKey(start)
	}
	if end != nil {
		rng.Limit = dataKey(end)
	}
	return rng
}
