package orm

import "github.com/iov-one/swap"

// Object is a model together with its primary key. The bucket prefix
// and the key form the store key.
type Object interface {
	Keyed
	Cloneable
	Validater
	Value() Model
}

// Model is the stored value of an object.
type Model interface {
	swap.Persistent
	Validater
}

// Validater checks that a value is fit to be stored.
type Validater interface {
	Validate() error
}

type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable returns an empty object of the same kind to decode into.
type Cloneable interface {
	Clone() Object
}

// CloneableData is a model that can copy itself, so a SimpleObj can
// hold it.
type CloneableData interface {
	Model
	Copy() CloneableData
}
