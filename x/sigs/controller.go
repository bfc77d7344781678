package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
)

// signPrefix versions the layout BuildSignBytes hashes.
var signPrefix = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of tx and moves the nonce
// of each signer on. It returns the signers in order, or fails without
// touching any nonce.
func VerifyTxSignatures(db swap.KVStore, tx SignedTx, chainID string) ([]swap.Address, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]swap.Address, 0, len(sigs))
	err = store.Atomically(db, func(db swap.KVStore) error {
		for i, sig := range sigs {
			signer, err := VerifySignature(db, sig, raw, chainID)
			if err != nil {
				return errors.Wrapf(err, "signature %d", i)
			}
			signers = append(signers, signer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signers, nil
}

// VerifySignature checks sig over raw for the current nonce of its key
// and moves that nonce on.
func VerifySignature(db swap.KVStore, sig *StdSignature, raw []byte, chainID string) (swap.Address, error) {
	if sig == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(raw, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(digest, &sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	users := NewBucket()
	addr := sig.Pubkey.Address()
	user, err := users.GetUser(db, addr)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &UserData{Pubkey: sig.Pubkey}
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := users.SaveUser(db, user); err != nil {
		return nil, err
	}
	return addr, nil
}

// BuildSignBytes returns the sha512 digest a signer signs:
//
//	prefix  | len(chainID) | chainID | sequence         | transaction
//	4 bytes | 1 byte       | ascii   | 8 bytes, big end | sign bytes
func BuildSignBytes(raw []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !swap.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	msg := make([]byte, 0, len(signPrefix)+1+len(chainID)+8+len(raw))
	msg = append(msg, signPrefix...)
	msg = append(msg, byte(len(chainID)))
	msg = append(msg, chainID...)
	msg = binary.BigEndian.AppendUint64(msg, uint64(seq))
	msg = append(msg, raw...)
	digest := sha512.Sum512(msg)
	return digest[:], nil
}

// SignTx signs tx for the chain with the given nonce.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(raw, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{Pubkey: *signer.PublicKey(), Signature: *sig, Sequence: seq}, nil
}

// NextNonce returns the sequence the next signature of signer must
// carry. It starts at zero.
func NextNonce(db swap.ReadOnlyKVStore, signer swap.Address) (int64, error) {
	user, err := NewBucket().GetUser(db, signer)
	if err != nil || user == nil {
		return 0, err
	}
	return user.Sequence, nil
}
