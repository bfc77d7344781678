package crypto

import (
	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key. The key itself is the address of
// its holder on the ledger.
type PublicKey struct {
	Ed25519 []byte
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Address returns the ledger address controlled by this key, or nil
// for an empty key.
func (p *PublicKey) Address() swap.Address {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return swap.Address(p.Ed25519).Clone()
}

// Marshal serializes the key with borsh.
func (p *PublicKey) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(*p)
}

// Unmarshal reads a borsh serialized key.
func (p *PublicKey) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(p, raw)
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

// Marshal serializes the signature with borsh.
func (s *Signature) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(*s)
}

// Unmarshal reads a borsh serialized signature.
func (s *Signature) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(s, raw)
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInvalidState, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{Ed25519: priv}
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var _ Signer = (*PrivateKey)(nil)
