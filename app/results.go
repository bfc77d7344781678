package app

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

// ResultSet is one side of a query answer. The keys and the values of
// the found models travel as two sets of equal length.
type ResultSet struct {
	Results [][]byte
}

var _ swap.Persistent = (*ResultSet)(nil)

func (r ResultSet) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(r)
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	*r = ResultSet{}
	if err := bin.UnmarshalBorsh(r, raw); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "result set: %s", err)
	}
	return nil
}

// SplitModels encodes the keys and the values of models as two result
// sets.
func SplitModels(models []swap.Model) (keys, values []byte, err error) {
	var k, v ResultSet
	for _, m := range models {
		k.Results = append(k.Results, m.Key)
		v.Results = append(v.Results, m.Value)
	}
	if keys, err = k.Marshal(); err != nil {
		return nil, nil, err
	}
	if values, err = v.Marshal(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

// JoinModels decodes what SplitModels produced.
func JoinModels(keys, values []byte) ([]swap.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	if len(k.Results) != len(v.Results) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "%d keys for %d values", len(k.Results), len(v.Results))
	}
	models := make([]swap.Model, 0, len(k.Results))
	for i, key := range k.Results {
		models = append(models, swap.Pair(key, v.Results[i]))
	}
	return models, nil
}

// UnmarshalFirst loads the first entry of an encoded result set into
// dst. An empty set leaves dst untouched.
func UnmarshalFirst(raw []byte, dst swap.Persistent) error {
	var set ResultSet
	if err := set.Unmarshal(raw); err != nil {
		return err
	}
	if len(set.Results) == 0 {
		return nil
	}
	return dst.Unmarshal(set.Results[0])
}
