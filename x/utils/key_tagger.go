package utils

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/store"
	"github.com/tendermint/tendermint/libs/common"
)

// Values of the tags KeyTagger writes for a set and a deleted key.
var (
	recordSet    = []byte("s")
	recordDelete = []byte("d")
)

// KeyTagger tags a delivered transaction with every key it wrote, so
// clients can subscribe to changes of an account or an offer.
type KeyTagger struct{}

var _ swap.Decorator = KeyTagger{}

func NewKeyTagger() KeyTagger {
	return KeyTagger{}
}

func (KeyTagger) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver runs next on a cache of db. The cache reaches db only when
// next succeeds, and each of its writes becomes one tag, in key order.
func (KeyTagger) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	var tags []common.KVPair
	cache := store.NewCache(db, func(ops []store.Op) error {
		for _, op := range ops {
			if err := op.Apply(db); err != nil {
				return err
			}
			tag := common.KVPair{Key: op.Key, Value: recordSet}
			if op.Delete {
				tag.Value = recordDelete
			}
			tags = append(tags, tag)
		}
		return nil
	})
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, tags...)
	return res, nil
}
