package sigs

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
)

// maxSequence is the largest nonce a javascript client can represent
// exactly.
const maxSequence = 1<<53 - 1

// UserData is the nonce of a signer. A signature is valid only for the
// current sequence, which then moves on by one.
type UserData struct {
	Pubkey   crypto.PublicKey
	Sequence int64
}

var _ orm.CloneableData = (*UserData)(nil)

func (u UserData) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	return bin.UnmarshalBorsh(u, raw)
}

func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	case u.Sequence > 0 && len(u.Pubkey.Ed25519) == 0:
		return errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Pubkey:   crypto.PublicKey{Ed25519: append([]byte(nil), u.Pubkey.Ed25519...)},
		Sequence: u.Sequence,
	}
}

// CheckAndIncrementSequence moves the sequence on if it equals
// expected.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "expected %d, got %d", u.Sequence, expected)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// Bucket stores the nonce of every signer under its address.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket("sigs", orm.NewSimpleObj(nil, &UserData{})),
	}
}

// RegisterQuery serves the nonces at "/auth".
func RegisterQuery(qr swap.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// GetUser returns the nonce of a signer, or nil if it never signed.
func (b Bucket) GetUser(db swap.ReadOnlyKVStore, addr swap.Address) (*UserData, error) {
	obj, err := b.Get(db, addr)
	if err != nil || obj == nil {
		return nil, err
	}
	u, ok := obj.Value().(*UserData)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return u, nil
}

// SaveUser stores the nonce under the address of its key.
func (b Bucket) SaveUser(db swap.KVStore, u *UserData) error {
	return b.Save(db, orm.NewSimpleObj(u.Pubkey.Address(), u))
}
