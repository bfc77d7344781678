// Package sigs authenticates transactions by their ed25519 signatures
// and keeps a nonce per signer against replays.
package sigs

import (
	"context"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x"
)

// signatureVerifyCost is the gas charged per verified signature.
const signatureVerifyCost = 500

type ctxKey int

const signersKey ctxKey = iota

// Decorator verifies the signatures of a SignedTx and passes the
// signers down in the context. Other transactions pass unsigned.
type Decorator struct {
	allowMissingSigs bool
}

var _ swap.Decorator = Decorator{}

// NewDecorator returns a decorator that requires at least one signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy that lets a SignedTx without
// signatures through.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check charges signatureVerifyCost for each signature on top of the
// gas of next.
func (d Decorator) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Checker) (*swap.CheckResult, error) {
	ctx, signers, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(signers * signatureVerifyCost)
	return res, nil
}

func (d Decorator) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx, next swap.Deliverer) (*swap.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) authenticate(ctx swap.Context, db swap.KVStore, tx swap.Tx) (swap.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := VerifyTxSignatures(db, stx, swap.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return context.WithValue(ctx, signersKey, signers), len(signers), nil
}

// Authenticate reports the signers the Decorator verified.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetSigners(ctx swap.Context) []swap.Address {
	signers, _ := ctx.Value(signersKey).([]swap.Address)
	return signers
}

func (a Authenticate) HasAddress(ctx swap.Context, addr swap.Address) bool {
	for _, s := range a.GetSigners(ctx) {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}
