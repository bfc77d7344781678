package token

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x"
)

const (
	createMintCost int64 = 100
	mintToCost     int64 = 20
	transferCost   int64 = 10
)

// RegisterQuery registers the token buckets under "/mints" and
// "/accounts".
func RegisterQuery(qr swap.QueryRouter) {
	NewMintBucket().Register("mints", qr)
	NewAccountBucket().Register("accounts", qr)
}

// RegisterRoutes registers the token handlers.
func RegisterRoutes(r swap.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&CreateMintMsg{}, &createMintHandler{auth: auth, ctrl: ctrl})
	r.Handle(&MintToMsg{}, &mintToHandler{auth: auth, ctrl: ctrl})
	r.Handle(&TransferMsg{}, &transferHandler{auth: auth, ctrl: ctrl})
}

type createMintHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ swap.Handler = (*createMintHandler)(nil)

func (h *createMintHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{GasAllocated: createMintCost}, nil
}

func (h *createMintHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, mint, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.CreateMint(db, mint, msg.Decimals, msg.Authority); err != nil {
		return nil, errors.Wrap(err, "create mint")
	}
	return &swap.DeliverResult{Data: mint}, nil
}

func (h *createMintHandler) validate(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*CreateMintMsg, swap.Address, error) {
	var msg CreateMintMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature required")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if len(conf.Issuer) != 0 && !h.auth.HasAddress(ctx, conf.Issuer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "issuer signature required")
	}
	mint, err := msg.MintAddress()
	if err != nil {
		return nil, nil, errors.Wrap(err, "mint address")
	}
	return &msg, mint, nil
}

type mintToHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ swap.Handler = (*mintToHandler)(nil)

func (h *mintToHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{GasAllocated: mintToCost}, nil
}

func (h *mintToHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	to, err := h.ctrl.EnsureAssociatedAccount(db, msg.Owner, msg.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "recipient account")
	}
	if err := h.ctrl.MintTo(ctx, db, msg.Mint, to, msg.Amount, UserKey{Key: signer}); err != nil {
		return nil, err
	}
	return &swap.DeliverResult{Data: to}, nil
}

func (h *mintToHandler) validate(ctx swap.Context, tx swap.Tx) (*MintToMsg, swap.Address, error) {
	var msg MintToMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return &msg, signer, nil
}

type transferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ swap.Handler = (*transferHandler)(nil)

func (h *transferHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{GasAllocated: transferCost}, nil
}

func (h *transferHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	from, err := AssociatedAccount(msg.Sender, msg.Mint)
	if err != nil {
		return nil, err
	}
	to, err := h.ctrl.EnsureAssociatedAccount(db, msg.Recipient, msg.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "recipient account")
	}
	asset := Asset{Mint: msg.Mint, Decimals: msg.Decimals}
	if err := h.ctrl.TransferChecked(ctx, db, from, to, msg.Amount, asset, UserKey{Key: msg.Sender}); err != nil {
		return nil, err
	}
	return &swap.DeliverResult{}, nil
}

func (h *transferHandler) validate(ctx swap.Context, tx swap.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Sender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sender signature required")
	}
	return &msg, nil
}
