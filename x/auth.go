package x

import (
	"github.com/iov-one/swap"
)

// Authenticator tells a handler who authorized the current request.
// Handlers take it as a dependency, so signatures are one source of
// signers among others.
type Authenticator interface {
	// GetSigners returns every address that authorized the request.
	GetSigners(swap.Context) []swap.Address
	HasAddress(swap.Context, swap.Address) bool
}

// ChainAuth joins authenticators. Their signers are reported in the
// given order.
func ChainAuth(auths ...Authenticator) Authenticator {
	return authChain(auths)
}

type authChain []Authenticator

func (c authChain) GetSigners(ctx swap.Context) []swap.Address {
	var all []swap.Address
	for _, auth := range c {
		all = append(all, auth.GetSigners(ctx)...)
	}
	return all
}

func (c authChain) HasAddress(ctx swap.Context, addr swap.Address) bool {
	for _, auth := range c {
		if auth.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer, or nil. It is the actor of
// requests that have one, like the maker of an offer.
func MainSigner(ctx swap.Context, auth Authenticator) swap.Address {
	if signers := auth.GetSigners(ctx); len(signers) > 0 {
		return signers[0]
	}
	return nil
}
