package offer

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/swaptest"
	"github.com/iov-one/swap/swaptest/assert"
)

func TestOfferLayout(t *testing.T) {
	offer := Offer{
		ID:            0x0102030405060708,
		Maker:         bytes.Repeat([]byte{1}, 32),
		AssetA:        bytes.Repeat([]byte{2}, 32),
		AssetB:        bytes.Repeat([]byte{3}, 32),
		AmountBWanted: 50,
		Bump:          254,
	}
	raw, err := offer.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, OfferSize, len(raw))
	assert.Equal(t, 121, len(raw))

	assert.Equal(t, offerDiscriminator, raw[:8])
	assert.Equal(t, uint64(0x0102030405060708), binary.LittleEndian.Uint64(raw[8:16]))
	assert.Equal(t, []byte(offer.Maker), raw[16:48])
	assert.Equal(t, []byte(offer.AssetA), raw[48:80])
	assert.Equal(t, []byte(offer.AssetB), raw[80:112])
	assert.Equal(t, uint64(50), binary.LittleEndian.Uint64(raw[112:120]))
	assert.Equal(t, byte(254), raw[120])

	var got Offer
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, offer, got)
}

func TestOfferUnmarshalRejectsForeignData(t *testing.T) {
	offer := Offer{
		Maker:         swaptest.NewAddress(),
		AssetA:        swaptest.NewAddress(),
		AssetB:        swaptest.NewAddress(),
		AmountBWanted: 1,
	}
	raw, err := offer.Marshal()
	assert.Nil(t, err)

	cases := map[string][]byte{
		"too short":             raw[:OfferSize-1],
		"too long":              append(append([]byte{}, raw...), 0),
		"another discriminator": append(discriminator("Vault"), raw[8:]...),
		"empty":                 nil,
	}
	for testName, data := range cases {
		t.Run(testName, func(t *testing.T) {
			var o Offer
			assert.IsErr(t, errors.ErrInvalidModel, o.Unmarshal(data))
		})
	}
}

func TestOfferMarshalRequiresFullAddresses(t *testing.T) {
	offer := Offer{
		Maker:         swap.Address{1, 2, 3},
		AssetA:        swaptest.NewAddress(),
		AssetB:        swaptest.NewAddress(),
		AmountBWanted: 1,
	}
	_, err := offer.Marshal()
	assert.IsErr(t, errors.ErrInvalidModel, err)
}

func TestOfferValidate(t *testing.T) {
	a, b := swaptest.NewAddress(), swaptest.NewAddress()
	maker := swaptest.NewAddress()

	cases := map[string]struct {
		offer Offer
		want  map[string]*errors.Error
	}{
		"valid": {
			offer: Offer{Maker: maker, AssetA: a, AssetB: b, AmountBWanted: 1},
			want: map[string]*errors.Error{
				"Maker":         nil,
				"AssetA":        nil,
				"AssetB":        nil,
				"AmountBWanted": nil,
			},
		},
		"same asset": {
			offer: Offer{Maker: maker, AssetA: a, AssetB: a, AmountBWanted: 1},
			want: map[string]*errors.Error{
				"AssetB": ErrSameAsset,
			},
		},
		"nothing wanted": {
			offer: Offer{Maker: maker, AssetA: a, AssetB: b},
			want: map[string]*errors.Error{
				"AmountBWanted": errors.ErrInvalidAmount,
			},
		},
		"missing maker": {
			offer: Offer{AssetA: a, AssetB: b, AmountBWanted: 1},
			want: map[string]*errors.Error{
				"Maker": errors.ErrEmpty,
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.offer.Validate()
			for field, want := range tc.want {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestOfferAddress(t *testing.T) {
	maker := swaptest.NewAddress()

	addr, bump, err := FindOfferAddress(maker, 7)
	assert.Nil(t, err)
	other, _, err := FindOfferAddress(maker, 8)
	assert.Nil(t, err)
	if addr.Equals(other) {
		t.Fatal("offers of one maker must not share an address")
	}

	offer := Offer{ID: 7, Maker: maker, Bump: bump}
	got, err := offer.Address()
	assert.Nil(t, err)
	assert.Equal(t, addr, got)

	authority := offer.Authority()
	assert.Equal(t, ProgramID, authority.Program)
	assert.Equal(t, bump, authority.Bump)
	derived, err := swap.CreateProgramAddressWithBump(authority.Program, authority.Bump, authority.Seeds...)
	assert.Nil(t, err)
	assert.Equal(t, addr, derived)
}
