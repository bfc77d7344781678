package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/x"
)

// Authority proves control over an owner address.
type Authority interface {
	// Controls returns true if the authority may act for owner in the
	// current request.
	Controls(ctx swap.Context, auth x.Authenticator, owner swap.Address) bool
}

// UserKey is the authority of a key holder. It controls its own
// address if the request carries a verified signature of the key.
type UserKey struct {
	Key swap.Address
}

var _ Authority = UserKey{}

func (u UserKey) Controls(ctx swap.Context, auth x.Authenticator, owner swap.Address) bool {
	return len(u.Key) != 0 && u.Key.Equals(owner) && auth.HasAddress(ctx, u.Key)
}

// ProgramDerived is the authority of a program over an address derived
// from its id. It controls the address only while that program
// executes the request.
type ProgramDerived struct {
	Program swap.Address
	Seeds   [][]byte
	Bump    uint8
}

var _ Authority = ProgramDerived{}

func (p ProgramDerived) Controls(ctx swap.Context, _ x.Authenticator, owner swap.Address) bool {
	running, ok := swap.GetProgram(ctx)
	if !ok || !running.Equals(p.Program) {
		return false
	}
	addr, err := swap.CreateProgramAddressWithBump(p.Program, p.Bump, p.Seeds...)
	if err != nil {
		return false
	}
	return addr.Equals(owner)
}
