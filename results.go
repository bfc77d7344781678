package swap

import (
	"github.com/iov-one/swap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a delivered transaction. A failure is
// always an error, never a result.
type DeliverResult struct {
	// Data is machine readable, like the address of a new offer.
	Data []byte
	Log  string
	// Tags index the transaction in the chain history.
	Tags []common.KVPair
}

// CheckResult is the outcome of a checked transaction.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated bounds the work the delivery may do.
	GasAllocated int64
}

// NewCheck returns a check result allocating gas.
func NewCheck(gas int64, log string) CheckResult {
	return CheckResult{GasAllocated: gas, Log: log}
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverOrError builds the response to DeliverTx from whichever of
// result and err the handler returned.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError builds the response to CheckTx from whichever of result
// and err the handler returned.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError reports a failed delivery. Outside debug mode errors
// without a registered code are redacted.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := failure("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError reports a failed check like DeliverTxError.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := failure("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func failure(stage string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, "cannot " + stage + " tx: " + log
}

// ParseDeliverOrError reads a DeliverTx response back into a result, or
// into the registered error its code stands for.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{Data: res.Data, Log: res.Log, Tags: res.Tags}, nil
}
