package sigs

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/swaptest"
)

// StdTx is a signed transaction used by the tests.
type StdTx struct {
	swaptest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ swap.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Tx: swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/sigs", Raw: payload}}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []swap.Address
}

var _ swap.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx swap.Context, store swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &swap.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx swap.Context, store swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	s.Signers = Authenticate{}.GetSigners(ctx)
	return &swap.DeliverResult{}, nil
}
