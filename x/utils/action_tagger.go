package utils

import (
	"github.com/iov-one/swap"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey tags a delivered transaction with the path of its message,
// as in action=offer/take.
const ActionKey = "action"

// ActionTagger adds the ActionKey tag to every successful delivery.
type ActionTagger struct{}

var _ swap.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails before next runs if the message cannot be read.
func (ActionTagger) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	return res, nil
}
