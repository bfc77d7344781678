package app

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs decoded transactions through the handler on top of the
// state kept by StoreApp.
type BaseApp struct {
	*StoreApp
	decoder swap.TxDecoder
	handler swap.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns the application. In debug mode responses carry the
// full message and stack of internal errors.
func NewBaseApp(store *StoreApp, decoder swap.TxDecoder, handler swap.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx executes a transaction on the block state.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return swap.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return swap.DeliverOrError(res, err, b.debug)
}

// CheckTx validates a transaction against the mempool state.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return swap.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return swap.CheckOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx swap.Tx) swap.Context {
	return swap.WithLogInfo(b.BlockContext(), "call", call, "path", swap.GetPath(tx))
}

// decode turns a panic of the decoder on malformed input into an
// error.
func (b BaseApp) decode(raw []byte) (tx swap.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(raw)
	return tx, errors.Wrap(err, "cannot decode transaction")
}
