package token

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const (
	pathCreateMintMsg = "token/create_mint"
	pathMintToMsg     = "token/mint_to"
	pathTransferMsg   = "token/transfer"
)

// CreateMintMsg registers a new asset. The mint address is derived from
// the authority and the seed, so one authority can create many mints.
type CreateMintMsg struct {
	Authority swap.Address
	Seed      uint64
	Decimals  uint8
}

var _ swap.Msg = (*CreateMintMsg)(nil)

func (msg CreateMintMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(msg)
}

func (msg *CreateMintMsg) Unmarshal(raw []byte) error {
	*msg = CreateMintMsg{}
	return bin.UnmarshalBorsh(msg, raw)
}

func (msg *CreateMintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", msg.Authority.Validate())
	if msg.Decimals > MaxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.ErrInvalidInput)
	}
	return errs
}

func (CreateMintMsg) Path() string {
	return pathCreateMintMsg
}

// MintAddress returns the address of the mint created by this message.
func (msg *CreateMintMsg) MintAddress() (swap.Address, error) {
	addr, _, err := swap.FindProgramAddress(ProgramID, []byte("mint"), msg.Authority, swap.SeedUint64(msg.Seed))
	return addr, err
}

// MintToMsg issues new supply into the associated account of Owner.
type MintToMsg struct {
	Mint   swap.Address
	Owner  swap.Address
	Amount uint64
}

var _ swap.Msg = (*MintToMsg)(nil)

func (msg MintToMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(msg)
}

func (msg *MintToMsg) Unmarshal(raw []byte) error {
	*msg = MintToMsg{}
	return bin.UnmarshalBorsh(msg, raw)
}

func (msg *MintToMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Mint", msg.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", msg.Owner.Validate())
	if msg.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	return errs
}

func (MintToMsg) Path() string {
	return pathMintToMsg
}

// TransferMsg moves tokens between the associated accounts of Sender
// and Recipient. Sender must sign the transaction.
type TransferMsg struct {
	Sender    swap.Address
	Recipient swap.Address
	Mint      swap.Address
	Decimals  uint8
	Amount    uint64
}

var _ swap.Msg = (*TransferMsg)(nil)

func (msg TransferMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(msg)
}

func (msg *TransferMsg) Unmarshal(raw []byte) error {
	*msg = TransferMsg{}
	return bin.UnmarshalBorsh(msg, raw)
}

func (msg *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", msg.Sender.Validate())
	errs = errors.AppendField(errs, "Recipient", msg.Recipient.Validate())
	errs = errors.AppendField(errs, "Mint", msg.Mint.Validate())
	if msg.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	return errs
}

func (TransferMsg) Path() string {
	return pathTransferMsg
}
