package app

import (
	"reflect"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/offer"
	"github.com/iov-one/swap/x/sigs"
	"github.com/iov-one/swap/x/token"
)

// messages lists every message the ledger accepts.
var messages = []swap.Msg{
	&sigs.BumpSequenceMsg{},
	&token.CreateMintMsg{},
	&token.MintToMsg{},
	&token.TransferMsg{},
	&offer.MakeOfferMsg{},
	&offer.TakeOfferMsg{},
	&offer.RefundOfferMsg{},
}

var msgTypes = func() map[string]reflect.Type {
	types := make(map[string]reflect.Type, len(messages))
	for _, m := range messages {
		if _, ok := types[m.Path()]; ok {
			panic("duplicated message path: " + m.Path())
		}
		types[m.Path()] = reflect.TypeOf(m).Elem()
	}
	return types
}()

// Tx is the transaction format of the ledger. It carries a single
// borsh encoded message, routed by its path, together with the
// signatures authorizing it.
type Tx struct {
	Signatures []sigs.StdSignature
	Path       string
	Payload    []byte
}

var _ swap.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps the message in an unsigned transaction.
func NewTx(msg swap.Msg) (*Tx, error) {
	if _, ok := msgTypes[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "unsupported message path %q", msg.Path())
	}
	payload, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return &Tx{Path: msg.Path(), Payload: payload}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it. Transactions
// carrying an unknown or malformed message are rejected.
func TxDecoder(bz []byte) (swap.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	if _, err := tx.GetMsg(); err != nil {
		return nil, err
	}
	return tx, nil
}

// Marshal encodes the transaction with borsh.
func (tx Tx) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(tx)
}

// Unmarshal decodes a borsh encoded transaction.
func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	if err := bin.UnmarshalBorsh(tx, raw); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "transaction: %s", err)
	}
	return nil
}

// GetMsg decodes the payload into the message registered for the path.
func (tx *Tx) GetMsg() (swap.Msg, error) {
	typ, ok := msgTypes[tx.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "unknown message path %q", tx.Path)
	}
	msg := reflect.New(typ).Interface().(swap.Msg)
	if err := msg.Unmarshal(tx.Payload); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%s: %s", tx.Path, err)
	}
	return msg, nil
}

// signedPart is everything in a transaction covered by signatures.
type signedPart struct {
	Path    string
	Payload []byte
}

// GetSignBytes returns the transaction without the signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return bin.MarshalBorsh(signedPart{Path: tx.Path, Payload: tx.Payload})
}

// GetSignatures returns all signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	res := make([]*sigs.StdSignature, len(tx.Signatures))
	for i := range tx.Signatures {
		res[i] = &tx.Signatures[i]
	}
	return res
}

// Sign appends a signature of the given signer, using its current nonce.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, *sig)
	return nil
}
