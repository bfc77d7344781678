package swaptest

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
)

// NewKey returns a new random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the address of a new random key.
func NewAddress() swap.Address {
	return NewKey().PublicKey().Address()
}

// SequenceID returns an 8 byte big endian representation of n, as used
// for model keys.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}
