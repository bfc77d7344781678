package token

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
)

// ProgramID identifies the token program. Associated accounts are
// derived from it.
var ProgramID = swap.NewAddress([]byte("swap/token"))

// MaxDecimals is the greatest precision a mint can declare.
const MaxDecimals = 18

// Mint describes an asset.
type Mint struct {
	Decimals uint8
	// Authority may issue new supply of this asset.
	Authority swap.Address
	Supply    uint64
}

var _ orm.CloneableData = (*Mint)(nil)

func (m Mint) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *Mint) Unmarshal(raw []byte) error {
	*m = Mint{}
	return bin.UnmarshalBorsh(m, raw)
}

func (m *Mint) Validate() error {
	var errs error
	if m.Decimals > MaxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.ErrInvalidInput)
	}
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	return errs
}

func (m *Mint) Copy() orm.CloneableData {
	return &Mint{
		Decimals:  m.Decimals,
		Authority: m.Authority.Clone(),
		Supply:    m.Supply,
	}
}

// TokenAccount holds a balance of a single mint.
type TokenAccount struct {
	Mint swap.Address
	// Owner is the address whose authority can move the balance.
	Owner  swap.Address
	Amount uint64
	// Program is set when Owner is derived from a program id. Only that
	// program may add funds to the account.
	Program swap.Address
}

var _ orm.CloneableData = (*TokenAccount)(nil)

func (a TokenAccount) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(a)
}

func (a *TokenAccount) Unmarshal(raw []byte) error {
	*a = TokenAccount{}
	return bin.UnmarshalBorsh(a, raw)
}

func (a *TokenAccount) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	if len(a.Program) != 0 {
		errs = errors.AppendField(errs, "Program", a.Program.Validate())
	}
	return errs
}

func (a *TokenAccount) Copy() orm.CloneableData {
	return &TokenAccount{
		Mint:    a.Mint.Clone(),
		Owner:   a.Owner.Clone(),
		Amount:  a.Amount,
		Program: a.Program.Clone(),
	}
}

// Asset is what a caller declares to be moving: a mint together with
// the precision the caller expects it to have.
type Asset struct {
	Mint     swap.Address
	Decimals uint8
}

// MintBucket stores mints under their address.
type MintBucket struct {
	orm.Bucket
}

// NewMintBucket returns a bucket for mints.
func NewMintBucket() MintBucket {
	return MintBucket{
		Bucket: orm.NewBucket("mint", orm.NewSimpleObj(nil, &Mint{})),
	}
}

// GetMint returns the mint stored under the address, or nil.
func (b MintBucket) GetMint(db swap.ReadOnlyKVStore, addr swap.Address) (*Mint, error) {
	obj, err := b.Get(db, addr)
	if err != nil || obj == nil {
		return nil, err
	}
	m, ok := obj.Value().(*Mint)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return m, nil
}

// AccountBucket stores token accounts under their address, indexed by
// owner.
type AccountBucket struct {
	orm.Bucket
}

// NewAccountBucket returns a bucket for token accounts.
func NewAccountBucket() AccountBucket {
	b := orm.NewBucket("account", orm.NewSimpleObj(nil, &TokenAccount{})).
		WithIndex("owner", ownerIndex, false)
	return AccountBucket{Bucket: b}
}

func ownerIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	acc, ok := obj.Value().(*TokenAccount)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return acc.Owner, nil
}

// GetAccount returns the account stored under the address, or nil.
func (b AccountBucket) GetAccount(db swap.ReadOnlyKVStore, addr swap.Address) (*TokenAccount, error) {
	obj, err := b.Get(db, addr)
	if err != nil || obj == nil {
		return nil, err
	}
	acc, ok := obj.Value().(*TokenAccount)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return acc, nil
}

// SaveAccount stores the account under the address.
func (b AccountBucket) SaveAccount(db swap.KVStore, addr swap.Address, acc *TokenAccount) error {
	return b.Save(db, orm.NewSimpleObj(addr, acc))
}

func newObj(key swap.Address, value orm.Model) orm.Object {
	return orm.NewSimpleObj(key, value)
}
