package sigs

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the nonce of the main signer, invalidating
// any transaction signed with a nonce below the new value.
type BumpSequenceMsg struct {
	Increment uint32
}

var _ swap.Msg = (*BumpSequenceMsg)(nil)

func (msg BumpSequenceMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(msg)
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(msg, raw)
}

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}
