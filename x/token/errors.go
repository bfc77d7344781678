package token

import (
	"github.com/iov-one/swap/errors"
)

// x/token reserves 1000 ~ 1009.
var (
	// ErrAuthorityMismatch is returned when the given authority does not
	// control the account or mint it acts on.
	ErrAuthorityMismatch = errors.Register(1000, "authority mismatch")
	// ErrAssetMismatch is returned when an account does not hold the
	// declared asset, or the declared precision is not the asset's.
	ErrAssetMismatch = errors.Register(1001, "asset mismatch")
	// ErrInsufficientBalance is returned when an account holds less
	// than the amount requested.
	ErrInsufficientBalance = errors.Register(1002, "insufficient balance")
)
