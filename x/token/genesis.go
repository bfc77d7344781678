package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ swap.Initializer = (*Initializer)(nil)

type genesisMint struct {
	Address   swap.Address `json:"address"`
	Decimals  uint8        `json:"decimals"`
	Authority swap.Address `json:"authority"`
}

type genesisAccount struct {
	Owner  swap.Address `json:"owner"`
	Mint   swap.Address `json:"mint"`
	Amount uint64       `json:"amount"`
}

// FromGenesis reads the "mints" and "accounts" sections of the genesis
// file. Accounts are created as associated accounts of their owner and
// their amount is added to the mint supply.
func (*Initializer) FromGenesis(opts swap.Options, db swap.KVStore) error {
	switch err := gconf.InitConfig(db, opts, confPkg, &Configuration{}); {
	case errors.ErrNotFound.Is(err):
	case err != nil:
		return errors.Wrap(err, "init config")
	}

	ctrl := NewController(nil)

	var mints []genesisMint
	if err := opts.ReadOptions("mints", &mints); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	for i, m := range mints {
		if err := ctrl.CreateMint(db, m.Address, m.Decimals, m.Authority); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
	}

	var accounts []genesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	for i, a := range accounts {
		if err := ctrl.issue(db, a.Owner, a.Mint, a.Amount); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
