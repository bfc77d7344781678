package orm

import (
	"bytes"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Index maintains a secondary lookup for the objects of a bucket.
type Index interface {
	swap.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update moves the references of an object after a write. prev is
	// nil on insert and save is nil on delete.
	Update(db swap.KVStore, prev, save Object) error

	// GetAt returns the primary keys of all objects indexed under
	// the given value.
	GetAt(db swap.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

// Indexer returns the value an object is indexed under. A nil value
// leaves the object out of the index.
type Indexer func(Object) ([]byte, error)

// index keeps a single key per indexed value. A unique index stores the
// primary key there, otherwise a MultiRef of all primary keys.
type index struct {
	name   string
	prefix []byte
	unique bool
	value  Indexer
	refKey func([]byte) []byte
}

var _ Index = index{}

// NewIndex returns an index named name. refKey maps a primary key to the
// key the object is stored under.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return index{
		name:   name,
		prefix: []byte("_i." + name + ":"),
		unique: unique,
		value:  indexer,
		refKey: refKey,
	}
}

func (i index) Name() string {
	return i.name
}

func (i index) key(value []byte) []byte {
	return append(append(make([]byte, 0, len(i.prefix)+len(value)), i.prefix...), value...)
}

func (i index) Update(db swap.KVStore, prev, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	}
	if prev != nil && save != nil && !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrInvalidInput, "cannot modify the primary key of an object")
	}

	var was, is []byte
	var err error
	if prev != nil {
		if was, err = i.value(prev); err != nil {
			return err
		}
	}
	if save != nil {
		if is, err = i.value(save); err != nil {
			return err
		}
	}
	if prev != nil && save != nil && bytes.Equal(was, is) {
		return nil
	}
	if len(is) != 0 {
		if err := i.add(db, is, save.Key()); err != nil {
			return err
		}
	}
	if len(was) != 0 {
		return i.remove(db, was, prev.Key())
	}
	return nil
}

func (i index) GetAt(db swap.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.key(value))
	if err != nil {
		return nil, err
	}
	return i.refs(raw)
}

func (i index) refs(raw []byte) ([][]byte, error) {
	switch {
	case raw == nil:
		return nil, nil
	case i.unique:
		return [][]byte{raw}, nil
	}
	var set MultiRef
	if err := set.Unmarshal(raw); err != nil {
		return nil, err
	}
	return set.Refs, nil
}

// Query resolves the objects under one value, or under every value
// starting with the given prefix.
func (i index) Query(db swap.ReadOnlyKVStore, mod string, data []byte) ([]swap.Model, error) {
	var refs [][]byte
	switch mod {
	case swap.KeyQueryMod:
		found, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		refs = found
	case swap.PrefixQueryMod:
		it, err := db.Iterator(prefixRange(i.key(data)))
		if err != nil {
			return nil, err
		}
		defer it.Close()
		for ; it.Valid(); it.Next() {
			found, err := i.refs(it.Value())
			if err != nil {
				return nil, err
			}
			refs = append(refs, found...)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}

	var res []swap.Model
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, swap.Pair(key, value))
	}
	return res, nil
}

func (i index) add(db swap.KVStore, value, pk []byte) error {
	key := i.key(value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}
	var set MultiRef
	if cur != nil {
		if err := set.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := set.Add(pk); err != nil {
		return err
	}
	return i.store(db, key, &set)
}

func (i index) remove(db swap.KVStore, value, pk []byte) error {
	key := i.key(value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s holds nothing", i.name)
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrNotFound, "%s belongs to another object", i.name)
		}
		return db.Delete(key)
	}
	var set MultiRef
	if err := set.Unmarshal(cur); err != nil {
		return err
	}
	if err := set.Remove(pk); err != nil {
		return err
	}
	return i.store(db, key, &set)
}

func (i index) store(db swap.KVStore, key []byte, set *MultiRef) error {
	if len(set.Refs) == 0 {
		return db.Delete(key)
	}
	raw, err := set.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}
