package offer

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/orm"
	"github.com/iov-one/swap/x/token"
)

// ProgramID identifies the offer program. Offers and their vaults are
// owned by addresses derived from it.
var ProgramID = swap.NewAddress([]byte("swap/offer"))

// OfferSize is the length of a serialized offer.
const OfferSize = 8 + 8 + 32 + 32 + 32 + 8 + 1

const offerSeed = "offer"

var offerDiscriminator = discriminator("Offer")

// discriminator returns the tag that prefixes a serialized record of
// the given type.
func discriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:8]
}

// Offer records what the maker wants in exchange for the content of
// the vault.
type Offer struct {
	ID    uint64
	Maker swap.Address
	// AssetA is the mint locked in the vault.
	AssetA swap.Address
	// AssetB is the mint the maker wants.
	AssetB        swap.Address
	AmountBWanted uint64
	// Bump completes the seeds of the offer address.
	Bump uint8
}

var _ orm.CloneableData = (*Offer)(nil)

// Marshal writes the fixed size layout of the offer: discriminator, id,
// maker, asset a, asset b, wanted amount and bump. Integers are little
// endian.
func (o Offer) Marshal() ([]byte, error) {
	addrs := []swap.Address{o.Maker, o.AssetA, o.AssetB}
	for _, a := range addrs {
		if len(a) != swap.AddressLength {
			return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid address length %d", len(a))
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, OfferSize))
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBytes(offerDiscriminator, false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(o.ID, binary.LittleEndian); err != nil {
		return nil, err
	}
	for _, a := range addrs {
		if err := enc.WriteBytes(a, false); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteUint64(o.AmountBWanted, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(o.Bump); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Offer) Unmarshal(raw []byte) error {
	if len(raw) != OfferSize {
		return errors.Wrapf(errors.ErrInvalidModel, "offer must be %d bytes, got %d", OfferSize, len(raw))
	}
	if !bytes.Equal(raw[:8], offerDiscriminator) {
		return errors.Wrap(errors.ErrInvalidModel, "not an offer")
	}
	dec := bin.NewBorshDecoder(raw[8:])

	var (
		res Offer
		err error
	)
	if res.ID, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	for _, dst := range []*swap.Address{&res.Maker, &res.AssetA, &res.AssetB} {
		b, err := dec.ReadNBytes(swap.AddressLength)
		if err != nil {
			return errors.Wrap(errors.ErrInvalidModel, err.Error())
		}
		*dst = swap.Address(b).Clone()
	}
	if res.AmountBWanted, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	if res.Bump, err = dec.ReadUint8(); err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	*o = res
	return nil
}

func (o *Offer) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Maker", o.Maker.Validate())
	errs = errors.AppendField(errs, "AssetA", o.AssetA.Validate())
	errs = errors.AppendField(errs, "AssetB", o.AssetB.Validate())
	if o.AssetA.Equals(o.AssetB) {
		errs = errors.AppendField(errs, "AssetB", ErrSameAsset)
	}
	if o.AmountBWanted == 0 {
		errs = errors.AppendField(errs, "AmountBWanted", errors.ErrInvalidAmount)
	}
	return errs
}

func (o *Offer) Copy() orm.CloneableData {
	return &Offer{
		ID:            o.ID,
		Maker:         o.Maker.Clone(),
		AssetA:        o.AssetA.Clone(),
		AssetB:        o.AssetB.Clone(),
		AmountBWanted: o.AmountBWanted,
		Bump:          o.Bump,
	}
}

func offerSeeds(maker swap.Address, id uint64) [][]byte {
	return [][]byte{[]byte(offerSeed), maker, swap.SeedUint64(id)}
}

// FindOfferAddress returns the address of the offer that maker creates
// with the given id, together with its bump.
func FindOfferAddress(maker swap.Address, id uint64) (swap.Address, uint8, error) {
	return swap.FindProgramAddress(ProgramID, offerSeeds(maker, id)...)
}

// Address re-derives the offer address from the stored bump.
func (o *Offer) Address() (swap.Address, error) {
	return swap.CreateProgramAddressWithBump(ProgramID, o.Bump, offerSeeds(o.Maker, o.ID)...)
}

// Authority is the authority of the program over the vault of this
// offer.
func (o *Offer) Authority() token.ProgramDerived {
	return token.ProgramDerived{
		Program: ProgramID,
		Seeds:   offerSeeds(o.Maker, o.ID),
		Bump:    o.Bump,
	}
}

// VaultAddress returns the token account holding the locked asset of
// the offer at the given address.
func VaultAddress(offer swap.Address, assetA swap.Address) (swap.Address, error) {
	return token.AssociatedAccount(offer, assetA)
}

// Bucket stores offers under their address, indexed by maker.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for offers.
func NewBucket() Bucket {
	b := orm.NewBucket("offer", orm.NewSimpleObj(nil, &Offer{})).
		WithIndex("maker", makerIndex, false)
	return Bucket{Bucket: b}
}

func makerIndex(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	o, ok := obj.Value().(*Offer)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return o.Maker, nil
}

// GetOffer returns the offer stored under the address, or
// ErrOfferNotFound.
func (b Bucket) GetOffer(db swap.ReadOnlyKVStore, addr swap.Address) (*Offer, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(ErrOfferNotFound, "offer %s", addr)
	}
	o, ok := obj.Value().(*Offer)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "invalid type: %T", obj.Value())
	}
	return o, nil
}

// SaveOffer stores the offer under the address.
func (b Bucket) SaveOffer(db swap.KVStore, addr swap.Address, o *Offer) error {
	return b.Save(db, orm.NewSimpleObj(addr, o))
}
