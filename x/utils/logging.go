package utils

import (
	"time"

	"github.com/iov-one/swap"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one line per transaction with its path, duration and
// outcome. Failures are errors. Successful deliveries are info and
// successful checks debug.
type Logging struct{}

var _ swap.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("check failed", "err", err)
	default:
		logger.Debug("checked", "log", res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("delivery failed", "err", err)
	default:
		logger.Info("delivered", "log", res.Log)
	}
	return res, err
}

func txLogger(ctx swap.Context, tx swap.Tx, start time.Time) log.Logger {
	return swap.GetLogger(ctx).With("path", swap.GetPath(tx), "duration", time.Since(start).Round(time.Microsecond))
}
