// Package gconf keeps one configuration object per extension in the
// ledger itself. It is loaded from the "conf" section of the genesis
// file and read back by the handlers.
package gconf

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Configuration is a validated, encodable configuration object.
type Configuration interface {
	swap.Persistent
	Validate() error
}

// Validated is the write side of a Configuration.
type Validated interface {
	swap.Marshaller
	Validate() error
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save stores the configuration of pkg if it is valid.
func Save(db swap.KVStore, pkg string, conf Validated) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of pkg into dst. It fails with
// ErrNotFound if none was saved.
func Load(db swap.ReadOnlyKVStore, pkg string, dst swap.Persistent) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal %s configuration", pkg)
}

// InitConfig saves the genesis entry conf.<pkg> into the ledger. It
// fails with ErrNotFound if the genesis has no such entry.
func InitConfig(db swap.KVStore, opts swap.Options, pkg string, conf Configuration) error {
	var all swap.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return err
	}
	if all[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration in genesis", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return err
	}
	return Save(db, pkg, conf)
}
