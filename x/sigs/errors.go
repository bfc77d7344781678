package sigs

import (
	"github.com/iov-one/swap/errors"
)

// x/sigs reserves 120 ~ 129.
var (
	// ErrInvalidSequence is returned when the nonce of a signature does
	// not match the next expected value of the signer.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
