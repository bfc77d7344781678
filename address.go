package swap

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/swap/errors"
	"github.com/mr-tron/base58/base58"
)

// AddressLength is the length of all addresses. User addresses are
// ed25519 public keys and program-derived addresses live in the same
// space.
const AddressLength = 32

// Address identifies an account holder. It is either the public key of
// a user or an address derived from a program and a list of seeds.
type Address []byte

// NewAddress hashes any data into an address. The result is not
// guaranteed to be on or off the ed25519 curve and should only be used
// as an identifier, for example of a program or an asset.
func NewAddress(data []byte) Address {
	h := sha256.Sum256(data)
	return h[:]
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that does not share the underlying array.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cpy := make(Address, len(a))
	copy(cpy, a)
	return cpy
}

// String returns the base58 representation of this address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return base58.Encode(a)
}

// Validate returns an error if the address is not the valid size
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInvalidInput, "address length %d", len(a))
	}
	return nil
}

// Bech32 returns the bech32 form of the address under the given human
// readable part, as ParseAddress reads it after a "bech32:" prefix.
func (a Address) Bech32(hrp string) (string, error) {
	words, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert bits")
	}
	enc, err := bech32.Encode(hrp, words)
	return enc, errors.Wrap(err, "bech32 encode")
}

// MarshalJSON provides a base58 representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts base58, "hex:" prefixed and "bech32:" prefixed
// representations.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes the human readable form of an address. A bare
// string is read as base58, other encodings must be prefixed with their
// format name.
func ParseAddress(enc string) (Address, error) {
	if enc == "" {
		return nil, nil
	}
	var (
		raw []byte
		err error
	)
	switch {
	case strings.HasPrefix(enc, "hex:"):
		raw, err = hex.DecodeString(enc[len("hex:"):])
	case strings.HasPrefix(enc, "bech32:"):
		raw, err = fromBech32(enc[len("bech32:"):])
	default:
		raw, err = base58.Decode(enc)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cannot decode %q: %s", enc, err)
	}
	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

func fromBech32(enc string) ([]byte, error) {
	_, words, err := bech32.Decode(enc)
	if err != nil {
		return nil, err
	}
	return bech32.ConvertBits(words, 5, 8, false)
}

// MustParseAddress is like ParseAddress, but panics instead of returning
// errors. Only use when you control the input, for example in program
// identifiers declared as package variables.
func MustParseAddress(enc string) Address {
	addr, err := ParseAddress(enc)
	if err != nil {
		panic(err)
	}
	return addr
}
