package offer

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

const (
	pathMakeOfferMsg   = "offer/make"
	pathTakeOfferMsg   = "offer/take"
	pathRefundOfferMsg = "offer/refund"
)

// MakeOfferMsg locks AmountA of AssetA from the maker's associated
// account and asks for AmountBWanted of AssetB in exchange. ID tells
// apart the offers of one maker.
type MakeOfferMsg struct {
	Maker         swap.Address
	ID            uint64
	AssetA        swap.Address
	AssetB        swap.Address
	AmountA       uint64
	AmountBWanted uint64
}

var _ swap.Msg = (*MakeOfferMsg)(nil)

func (msg MakeOfferMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(msg)
}

func (msg *MakeOfferMsg) Unmarshal(raw []byte) error {
	*msg = MakeOfferMsg{}
	return bin.UnmarshalBorsh(msg, raw)
}

func (msg *MakeOfferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Maker", msg.Maker.Validate())
	errs = errors.AppendField(errs, "AssetA", msg.AssetA.Validate())
	errs = errors.AppendField(errs, "AssetB", msg.AssetB.Validate())
	if msg.AmountA == 0 {
		errs = errors.AppendField(errs, "AmountA", errors.ErrInvalidAmount)
	}
	if msg.AmountBWanted == 0 {
		errs = errors.AppendField(errs, "AmountBWanted", errors.ErrInvalidAmount)
	}
	if msg.AssetA.Equals(msg.AssetB) {
		errs = errors.AppendField(errs, "AssetB", ErrSameAsset)
	}
	return errs
}

func (MakeOfferMsg) Path() string {
	return pathMakeOfferMsg
}

// TakeOfferMsg fills the offer stored at Offer.
type TakeOfferMsg struct {
	Taker swap.Address
	Offer swap.Address
}

var _ swap.Msg = (*TakeOfferMsg)(nil)

func (msg TakeOfferMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(msg)
}

func (msg *TakeOfferMsg) Unmarshal(raw []byte) error {
	*msg = TakeOfferMsg{}
	return bin.UnmarshalBorsh(msg, raw)
}

func (msg *TakeOfferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Taker", msg.Taker.Validate())
	errs = errors.AppendField(errs, "Offer", msg.Offer.Validate())
	return errs
}

func (TakeOfferMsg) Path() string {
	return pathTakeOfferMsg
}

// RefundOfferMsg returns the locked asset to the maker and closes the
// offer.
type RefundOfferMsg struct {
	Maker swap.Address
	Offer swap.Address
}

var _ swap.Msg = (*RefundOfferMsg)(nil)

func (msg RefundOfferMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(msg)
}

func (msg *RefundOfferMsg) Unmarshal(raw []byte) error {
	*msg = RefundOfferMsg{}
	return bin.UnmarshalBorsh(msg, raw)
}

func (msg *RefundOfferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Maker", msg.Maker.Validate())
	errs = errors.AppendField(errs, "Offer", msg.Offer.Validate())
	return errs
}

func (RefundOfferMsg) Path() string {
	return pathRefundOfferMsg
}
