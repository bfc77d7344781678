// Package orm stores typed objects in named, prefixed buckets of a
// key value store, with optional secondary indexes.
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket holds objects of one kind under the prefix "name:". Typed
// buckets embed it and convert the objects it returns.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

var _ swap.QueryHandler = Bucket{}

// NewBucket returns a bucket whose objects are clones of proto. It
// panics on a name that is not 3 to 10 lowercase letters.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket, used as the key prefix.
func (b Bucket) Name() string {
	return b.name
}

// Register serves the bucket at /name and each index at /name/index.
// An empty name uses the bucket name.
func (b Bucket) Register(name string, r swap.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for name, idx := range b.indexes {
		r.Register(root+"/"+name, idx)
	}
}

// Query returns the object under a key, or all objects whose key starts
// with a prefix.
func (b Bucket) Query(db swap.ReadOnlyKVStore, mod string, data []byte) ([]swap.Model, error) {
	switch mod {
	case swap.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []swap.Model{swap.Pair(key, value)}, nil
	case swap.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
}

// DBKey returns the store key of an object. The result never shares
// memory with the prefix.
func (b Bucket) DBKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(b.prefix)+len(key)), b.prefix...), key...)
}

// Get one element. Returns nil without an error if the key is missing.
func (b Bucket) Get(db swap.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has returns true if an element is stored under the key.
func (b Bucket) Has(db swap.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse decodes a stored value into an object of the bucket.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "cannot unmarshal %s: %s", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates the object, updates the indexes and stores it.
func (b Bucket) Save(db swap.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return err
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.updateIndexes(db, model.Key(), model); err != nil {
		return err
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete removes the object and its index entries.
func (b Bucket) Delete(db swap.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db swap.KVStore, key []byte, model Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && model == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, model); err != nil {
			return err
		}
	}
	return nil
}

// WithIndex returns a copy of the bucket with one more index. It panics
// if the name is taken.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %s registered twice", name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// GetIndexed returns the objects the named index holds under key.
func (b Bucket) GetIndexed(db swap.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil {
		return nil, err
	}
	return b.readRefs(db, refs)
}

func (b Bucket) readRefs(db swap.ReadOnlyKVStore, refs [][]byte) ([]Object, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	objs := make([]Object, 0, len(refs))
	for _, key := range refs {
		obj, err := b.Get(db, key)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, errors.Wrapf(errors.ErrInvalidState, "dangling index reference %X", key)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
