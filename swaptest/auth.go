package swaptest

import (
	"context"

	"github.com/iov-one/swap"
)

// Auth authenticates a fixed set of signers.
type Auth struct {
	Signers []swap.Address
}

func (a *Auth) GetSigners(swap.Context) []swap.Address {
	return a.Signers
}

func (a *Auth) HasAddress(_ swap.Context, addr swap.Address) bool {
	return contains(a.Signers, addr)
}

// CtxAuth authenticates the signers stored in the context under Key.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetSigners(ctx swap.Context, signers ...swap.Address) swap.Context {
	return context.WithValue(ctx, a.Key, signers)
}

// GetSigners panics if something other than signers is stored under
// Key.
func (a *CtxAuth) GetSigners(ctx swap.Context) []swap.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	return val.([]swap.Address)
}

func (a *CtxAuth) HasAddress(ctx swap.Context, addr swap.Address) bool {
	return contains(a.GetSigners(ctx), addr)
}

func contains(signers []swap.Address, addr swap.Address) bool {
	for _, s := range signers {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}
