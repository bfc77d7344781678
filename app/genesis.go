package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string       `json:"chain_id"`
	AppState swap.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "read genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "parse genesis file: %s", err)
	}
	return gen, nil
}

// AppStateBytes returns the app state the way tendermint passes it
// to InitChain on the first start of the chain.
func (g Genesis) AppStateBytes() ([]byte, error) {
	raw, err := json.Marshal(g.AppState)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "serialize app state: %s", err)
	}
	return raw, nil
}
