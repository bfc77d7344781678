package offer

import (
	"github.com/iov-one/swap/errors"
)

var (
	ErrSameAsset     = errors.Register(1010, "same asset")
	ErrOfferNotFound = errors.Register(1011, "offer not found")
	ErrNotMaker      = errors.Register(1012, "not the maker")
)
