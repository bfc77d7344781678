package sigs

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x"
)

// RegisterRoutes serves BumpSequenceMsg.
func RegisterRoutes(r swap.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, bumpSequenceHandler{users: NewBucket(), auth: auth})
}

// bumpSequenceHandler moves the nonce of the main signer forward, so
// transactions it signed ahead of time can no longer run.
type bumpSequenceHandler struct {
	users Bucket
	auth  x.Authenticator
}

func (h bumpSequenceHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, err := h.load(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{}, nil
}

// Deliver adds Increment less one, the one the signature of tx already
// used.
func (h bumpSequenceHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	user, msg, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if msg.Increment > 1 {
		user.Sequence += int64(msg.Increment) - 1
		if err := h.users.SaveUser(db, user); err != nil {
			return nil, errors.Wrap(err, "save user")
		}
	}
	return &swap.DeliverResult{}, nil
}

func (h bumpSequenceHandler) load(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	user, err := h.users.GetUser(db, signer)
	switch {
	case err != nil:
		return nil, nil, err
	case user == nil:
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "no sequence for %s", signer)
	case user.Sequence+int64(msg.Increment) > maxSequence:
		return nil, nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	return user, &msg, nil
}
