package token

import (
	"math"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/x"
)

// Controller is the only way balances change. Other extensions move
// tokens through it, declaring the authority they act with.
type Controller struct {
	auth     x.Authenticator
	mints    MintBucket
	accounts AccountBucket
}

// NewController returns a controller that verifies user keys with the
// given authenticator.
func NewController(auth x.Authenticator) Controller {
	return Controller{
		auth:     auth,
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

// AssociatedAccount returns the address of the canonical account of
// owner for the given mint.
func AssociatedAccount(owner, mint swap.Address) (swap.Address, error) {
	addr, _, err := swap.FindProgramAddress(ProgramID, owner, mint)
	if err != nil {
		return nil, errors.Wrap(err, "associated account")
	}
	return addr, nil
}

// Asset returns the declaration of an existing mint.
func (c Controller) Asset(db swap.ReadOnlyKVStore, mint swap.Address) (Asset, error) {
	m, err := c.mint(db, mint)
	if err != nil {
		return Asset{}, err
	}
	return Asset{Mint: mint, Decimals: m.Decimals}, nil
}

func (c Controller) mint(db swap.ReadOnlyKVStore, mint swap.Address) (*Mint, error) {
	m, err := c.mints.GetMint(db, mint)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.Wrapf(ErrAssetMismatch, "unknown mint %s", mint)
	}
	return m, nil
}

// Account returns the token account stored under the address.
func (c Controller) Account(db swap.ReadOnlyKVStore, addr swap.Address) (*TokenAccount, error) {
	acc, err := c.accounts.GetAccount(db, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	return acc, nil
}

// Balance returns the amount held by an account.
func (c Controller) Balance(db swap.ReadOnlyKVStore, addr swap.Address) (uint64, error) {
	acc, err := c.Account(db, addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// CreateMint registers a new asset with no supply.
func (c Controller) CreateMint(db swap.KVStore, mint swap.Address, decimals uint8, authority swap.Address) error {
	if err := mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	switch has, err := c.mints.Has(db, mint); {
	case err != nil:
		return err
	case has:
		return errors.Wrapf(errors.ErrDuplicate, "mint %s", mint)
	}
	obj := &Mint{Decimals: decimals, Authority: authority}
	return c.mints.Save(db, newObj(mint, obj))
}

// MintTo issues new supply of mint into the account. The authority must
// control the mint.
func (c Controller) MintTo(ctx swap.Context, db swap.KVStore, mint, to swap.Address, amount uint64, authority Authority) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	m, err := c.mint(db, mint)
	if err != nil {
		return err
	}
	if !authority.Controls(ctx, c.auth, m.Authority) {
		return errors.Wrap(ErrAuthorityMismatch, "mint authority")
	}
	acc, err := c.Account(db, to)
	if err != nil {
		return err
	}
	if !acc.Mint.Equals(mint) {
		return errors.Wrap(ErrAssetMismatch, "recipient holds another asset")
	}
	if err := mayCredit(ctx, acc); err != nil {
		return err
	}
	if m.Supply > math.MaxUint64-amount || acc.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acc.Amount += amount

	return store.Atomically(db, func(db swap.KVStore) error {
		if err := c.mints.Save(db, newObj(mint, m)); err != nil {
			return err
		}
		return c.accounts.SaveAccount(db, to, acc)
	})
}

// OpenAccount creates an empty account for the mint at the given
// address. The owner must be a key holder; accounts of program-derived
// owners are opened with OpenProgramAccount.
func (c Controller) OpenAccount(db swap.KVStore, addr, mint, owner swap.Address) error {
	if !swap.IsOnCurve(owner) {
		return errors.Wrapf(ErrAuthorityMismatch, "owner %s is not a key", owner)
	}
	return c.open(db, addr, &TokenAccount{Mint: mint, Owner: owner})
}

// OpenProgramAccount creates an empty account at the given address,
// owned by the address the authority derives. Only the program behind
// the authority, while it executes, can open and fund such an account.
func (c Controller) OpenProgramAccount(ctx swap.Context, db swap.KVStore, addr, mint swap.Address, authority ProgramDerived) error {
	owner, err := swap.CreateProgramAddressWithBump(authority.Program, authority.Bump, authority.Seeds...)
	if err != nil {
		return errors.Wrap(err, "owner")
	}
	if !authority.Controls(ctx, c.auth, owner) {
		return errors.Wrap(ErrAuthorityMismatch, "program account")
	}
	return c.open(db, addr, &TokenAccount{Mint: mint, Owner: owner, Program: authority.Program})
}

func (c Controller) open(db swap.KVStore, addr swap.Address, acc *TokenAccount) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	switch has, err := c.accounts.Has(db, addr); {
	case err != nil:
		return err
	case has:
		return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	}
	switch has, err := c.mints.Has(db, acc.Mint); {
	case err != nil:
		return err
	case !has:
		return errors.Wrapf(ErrAssetMismatch, "unknown mint %s", acc.Mint)
	}
	return c.accounts.SaveAccount(db, addr, acc)
}

// EnsureAssociatedAccount returns the associated account of owner for
// the mint, opening it if it does not exist yet. The owner must be a
// key holder.
func (c Controller) EnsureAssociatedAccount(db swap.KVStore, owner, mint swap.Address) (swap.Address, error) {
	addr, err := AssociatedAccount(owner, mint)
	if err != nil {
		return nil, err
	}
	acc, err := c.accounts.GetAccount(db, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		if err := c.OpenAccount(db, addr, mint, owner); err != nil {
			return nil, err
		}
		return addr, nil
	}
	if !acc.Mint.Equals(mint) || !acc.Owner.Equals(owner) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "associated account %s", addr)
	}
	return addr, nil
}

// CloseAccount deletes an empty account. The authority must control
// the account owner.
func (c Controller) CloseAccount(ctx swap.Context, db swap.KVStore, addr swap.Address, authority Authority) error {
	acc, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if !authority.Controls(ctx, c.auth, acc.Owner) {
		return errors.Wrap(ErrAuthorityMismatch, "account owner")
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "account holds %d", acc.Amount)
	}
	return c.accounts.Delete(db, addr)
}

// TransferChecked moves amount of asset from one account to another.
//
// The declared asset must match the mint and precision held by both
// accounts, and the authority must control the source account. A
// missing source holds nothing. No state is changed unless the
// transfer succeeds.
func (c Controller) TransferChecked(
	ctx swap.Context,
	db swap.KVStore,
	from, to swap.Address,
	amount uint64,
	asset Asset,
	authority Authority,
) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	m, err := c.mint(db, asset.Mint)
	if err != nil {
		return err
	}
	if m.Decimals != asset.Decimals {
		return errors.Wrapf(ErrAssetMismatch, "declared %d decimals, mint has %d", asset.Decimals, m.Decimals)
	}

	src, err := c.accounts.GetAccount(db, from)
	if err != nil {
		return err
	}
	if src == nil {
		return errors.Wrapf(ErrInsufficientBalance, "source %s holds nothing", from)
	}
	dst, err := c.accounts.GetAccount(db, to)
	if err != nil {
		return err
	}
	if dst == nil {
		return errors.Wrapf(ErrAssetMismatch, "destination %s holds no %s", to, asset.Mint)
	}
	if !src.Mint.Equals(asset.Mint) {
		return errors.Wrap(ErrAssetMismatch, "source holds another asset")
	}
	if !dst.Mint.Equals(asset.Mint) {
		return errors.Wrap(ErrAssetMismatch, "destination holds another asset")
	}
	if !authority.Controls(ctx, c.auth, src.Owner) {
		return errors.Wrap(ErrAuthorityMismatch, "source owner")
	}
	if err := mayCredit(ctx, dst); err != nil {
		return err
	}
	if src.Amount < amount {
		return errors.Wrapf(ErrInsufficientBalance, "have %d, need %d", src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	src.Amount -= amount
	dst.Amount += amount

	return store.Atomically(db, func(db swap.KVStore) error {
		if err := c.accounts.SaveAccount(db, from, src); err != nil {
			return err
		}
		return c.accounts.SaveAccount(db, to, dst)
	})
}

// mayCredit rejects funds sent to an account of a program unless that
// program executes the request.
func mayCredit(ctx swap.Context, acc *TokenAccount) error {
	if len(acc.Program) == 0 {
		if !swap.IsOnCurve(acc.Owner) {
			return errors.Wrapf(ErrAuthorityMismatch, "owner %s has no program", acc.Owner)
		}
		return nil
	}
	if running, ok := swap.GetProgram(ctx); !ok || !running.Equals(acc.Program) {
		return errors.Wrapf(ErrAuthorityMismatch, "only %s may fund this account", acc.Program)
	}
	return nil
}

// issue credits the associated account of owner with new supply without
// an authority check. Only genesis may call it.
func (c Controller) issue(db swap.KVStore, owner, mint swap.Address, amount uint64) error {
	to, err := c.EnsureAssociatedAccount(db, owner, mint)
	if err != nil {
		return err
	}
	m, err := c.mint(db, mint)
	if err != nil {
		return err
	}
	acc, err := c.Account(db, to)
	if err != nil {
		return err
	}
	if m.Supply > math.MaxUint64-amount || acc.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acc.Amount += amount
	if err := c.mints.Save(db, newObj(mint, m)); err != nil {
		return err
	}
	return c.accounts.SaveAccount(db, to, acc)
}
