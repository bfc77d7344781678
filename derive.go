package swap

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/swap/errors"
	"github.com/jdgcs/ed25519/edwards25519"
)

const (
	// MaxSeeds is the maximum number of seeds a program address can be
	// derived from, including the bump.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	programAddressMarker = "ProgramDerivedAddress"
)

// ErrOnCurve is returned by CreateProgramAddress when the derived
// address is a valid ed25519 public key.
var ErrOnCurve = errors.Register(20, "address on curve")

// CreateProgramAddress derives an address from a program and seeds.
//
// The result never lies on the ed25519 curve, so no private key exists
// for it and only the program can act for it. If the digest happens to
// be a valid curve point ErrOnCurve is returned and the caller should
// try a different seed set, see FindProgramAddress.
func CreateProgramAddress(program Address, seeds ...[]byte) (Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "too many seeds: %d", len(seeds))
	}
	h := sha256.New()
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "seed too long: %d", len(s))
		}
		_, _ = h.Write(s)
	}
	_, _ = h.Write(program)
	_, _ = h.Write([]byte(programAddressMarker))

	addr := Address(h.Sum(nil))
	if IsOnCurve(addr) {
		return nil, errors.Wrapf(ErrOnCurve, "program %s", program)
	}
	return addr, nil
}

// IsOnCurve returns true if the address is a valid ed25519 public key,
// that is an address some private key can sign for. Program-derived
// addresses are never on the curve.
func IsOnCurve(a Address) bool {
	if len(a) != AddressLength {
		return false
	}
	var pub [AddressLength]byte
	copy(pub[:], a)
	var point edwards25519.ExtendedGroupElement
	return point.FromBytes(&pub)
}

// FindProgramAddress searches for the first bump seed, counting down
// from 255, that together with the given seeds produces a valid program
// address. It returns the address and the bump that must be stored so
// that later calls can use CreateProgramAddress directly.
func FindProgramAddress(program Address, seeds ...[]byte) (Address, uint8, error) {
	for b := 255; b >= 0; b-- {
		bump := uint8(b)
		addr, err := CreateProgramAddressWithBump(program, bump, seeds...)
		switch {
		case err == nil:
			return addr, bump, nil
		case !ErrOnCurve.Is(err):
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInvalidState, "no viable bump seed")
}

// CreateProgramAddressWithBump re-derives an address previously found
// with FindProgramAddress.
func CreateProgramAddressWithBump(program Address, bump uint8, seeds ...[]byte) (Address, error) {
	all := make([][]byte, 0, len(seeds)+1)
	all = append(all, seeds...)
	all = append(all, []byte{bump})
	return CreateProgramAddress(program, all...)
}

// SeedUint64 returns the little endian encoding of n for use as a seed.
func SeedUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}
