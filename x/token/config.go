package token

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/gconf"
)

const confPkg = "token"

// Configuration is the genesis configuration of the token extension.
type Configuration struct {
	// Issuer is the only address allowed to create mints. Anyone can
	// create a mint if it is empty.
	Issuer swap.Address `json:"issuer"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c Configuration) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	return bin.UnmarshalBorsh(c, raw)
}

func (c *Configuration) Validate() error {
	if len(c.Issuer) == 0 {
		return nil
	}
	return errors.Field("Issuer", c.Issuer.Validate(), "invalid issuer")
}

// loadConf returns the stored configuration, or the zero value if none
// was provided at genesis.
func loadConf(db swap.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case errors.ErrNotFound.Is(err):
		return &Configuration{}, nil
	case err != nil:
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
