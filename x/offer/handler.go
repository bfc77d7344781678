package offer

import (
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/x"
	"github.com/iov-one/swap/x/token"
)

const (
	makeOfferCost   int64 = 300
	takeOfferCost   int64 = 300
	refundOfferCost int64 = 100
)

// RegisterQuery registers offers under "/offers" and "/offers/maker".
func RegisterQuery(qr swap.QueryRouter) {
	NewBucket().Register("offers", qr)
}

// RegisterRoutes registers the offer handlers. All token movements go
// through the given controller.
func RegisterRoutes(r swap.Registry, auth x.Authenticator, tokens token.Controller) {
	bucket := NewBucket()
	r.Handle(&MakeOfferMsg{}, &makeOfferHandler{auth: auth, bucket: bucket, tokens: tokens})
	r.Handle(&TakeOfferMsg{}, &takeOfferHandler{auth: auth, bucket: bucket, tokens: tokens})
	r.Handle(&RefundOfferMsg{}, &refundOfferHandler{auth: auth, bucket: bucket, tokens: tokens})
}

type makeOfferHandler struct {
	auth   x.Authenticator
	bucket Bucket
	tokens token.Controller
}

var _ swap.Handler = (*makeOfferHandler)(nil)

func (h *makeOfferHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{GasAllocated: makeOfferCost}, nil
}

// Deliver opens a fresh vault for the offer, moves the maker's asset
// into it and stores the offer. The vault and the offer are written
// together or not at all.
func (h *makeOfferHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, addr, bump, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	assetA, err := h.tokens.Asset(db, msg.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "asset a")
	}
	if _, err := h.tokens.Asset(db, msg.AssetB); err != nil {
		return nil, errors.Wrap(err, "asset b")
	}
	vault, err := VaultAddress(addr, msg.AssetA)
	if err != nil {
		return nil, err
	}
	from, err := token.AssociatedAccount(msg.Maker, msg.AssetA)
	if err != nil {
		return nil, err
	}

	offer := &Offer{
		ID:            msg.ID,
		Maker:         msg.Maker,
		AssetA:        msg.AssetA,
		AssetB:        msg.AssetB,
		AmountBWanted: msg.AmountBWanted,
		Bump:          bump,
	}
	program := swap.WithProgram(ctx, ProgramID)
	err = store.Atomically(db, func(db swap.KVStore) error {
		if err := h.tokens.OpenProgramAccount(program, db, vault, msg.AssetA, offer.Authority()); err != nil {
			return errors.Wrap(err, "open vault")
		}
		if err := h.tokens.TransferChecked(program, db, from, vault, msg.AmountA, assetA, token.UserKey{Key: msg.Maker}); err != nil {
			return errors.Wrap(err, "fund vault")
		}
		return errors.Wrap(h.bucket.SaveOffer(db, addr, offer), "save offer")
	})
	if err != nil {
		return nil, err
	}

	swap.GetLogger(ctx).Debug("offer made", "offer", addr, "maker", msg.Maker, "id", msg.ID)
	return &swap.DeliverResult{Data: addr}, nil
}

func (h *makeOfferHandler) validate(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*MakeOfferMsg, swap.Address, uint8, error) {
	var msg MakeOfferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, nil, 0, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}
	addr, bump, err := FindOfferAddress(msg.Maker, msg.ID)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "offer address")
	}
	switch has, err := h.bucket.Has(db, addr); {
	case err != nil:
		return nil, nil, 0, err
	case has:
		return nil, nil, 0, errors.Wrapf(errors.ErrDuplicate, "offer %d of %s", msg.ID, msg.Maker)
	}
	return &msg, addr, bump, nil
}

type takeOfferHandler struct {
	auth   x.Authenticator
	bucket Bucket
	tokens token.Controller
}

var _ swap.Handler = (*takeOfferHandler)(nil)

func (h *takeOfferHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{GasAllocated: takeOfferCost}, nil
}

// Deliver pays the maker from the taker, then empties the vault to the
// taker and closes the offer. Any failure aborts the whole request.
func (h *takeOfferHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, offer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	assetA, err := h.tokens.Asset(db, offer.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "asset a")
	}
	assetB, err := h.tokens.Asset(db, offer.AssetB)
	if err != nil {
		return nil, errors.Wrap(err, "asset b")
	}

	takerB, err := token.AssociatedAccount(msg.Taker, offer.AssetB)
	if err != nil {
		return nil, err
	}
	makerB, err := h.tokens.EnsureAssociatedAccount(db, offer.Maker, offer.AssetB)
	if err != nil {
		return nil, errors.Wrap(err, "maker account")
	}
	if err := h.tokens.TransferChecked(ctx, db, takerB, makerB, offer.AmountBWanted, assetB, token.UserKey{Key: msg.Taker}); err != nil {
		return nil, errors.Wrap(err, "pay maker")
	}

	takerA, err := h.tokens.EnsureAssociatedAccount(db, msg.Taker, offer.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "taker account")
	}
	if err := releaseVault(ctx, db, h.tokens, h.bucket, msg.Offer, offer, takerA, assetA); err != nil {
		return nil, err
	}

	swap.GetLogger(ctx).Debug("offer taken", "offer", msg.Offer, "taker", msg.Taker)
	return &swap.DeliverResult{}, nil
}

func (h *takeOfferHandler) validate(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*TakeOfferMsg, *Offer, error) {
	var msg TakeOfferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature required")
	}
	offer, err := loadOffer(db, h.bucket, msg.Offer)
	if err != nil {
		return nil, nil, err
	}
	return &msg, offer, nil
}

type refundOfferHandler struct {
	auth   x.Authenticator
	bucket Bucket
	tokens token.Controller
}

var _ swap.Handler = (*refundOfferHandler)(nil)

func (h *refundOfferHandler) Check(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swap.CheckResult{GasAllocated: refundOfferCost}, nil
}

// Deliver returns the content of the vault to the maker and closes the
// offer.
func (h *refundOfferHandler) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	msg, offer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	assetA, err := h.tokens.Asset(db, offer.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "asset a")
	}
	makerA, err := h.tokens.EnsureAssociatedAccount(db, offer.Maker, offer.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "maker account")
	}
	if err := releaseVault(ctx, db, h.tokens, h.bucket, msg.Offer, offer, makerA, assetA); err != nil {
		return nil, err
	}

	swap.GetLogger(ctx).Debug("offer refunded", "offer", msg.Offer)
	return &swap.DeliverResult{}, nil
}

func (h *refundOfferHandler) validate(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*RefundOfferMsg, *Offer, error) {
	var msg RefundOfferMsg
	if err := swap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}
	offer, err := loadOffer(db, h.bucket, msg.Offer)
	if err != nil {
		return nil, nil, err
	}
	if !offer.Maker.Equals(msg.Maker) {
		return nil, nil, errors.Wrap(ErrNotMaker, "only the maker can refund")
	}
	return &msg, offer, nil
}

// loadOffer returns the offer stored at addr after checking that its
// stored bump still derives addr.
func loadOffer(db swap.ReadOnlyKVStore, bucket Bucket, addr swap.Address) (*Offer, error) {
	offer, err := bucket.GetOffer(db, addr)
	if err != nil {
		return nil, err
	}
	derived, err := offer.Address()
	if err != nil || !derived.Equals(addr) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "offer %s does not match its seeds", addr)
	}
	return offer, nil
}

// releaseVault moves the whole vault to the given account under the
// program authority of the offer, then closes the vault and the offer.
func releaseVault(
	ctx swap.Context,
	db swap.KVStore,
	tokens token.Controller,
	bucket Bucket,
	addr swap.Address,
	offer *Offer,
	to swap.Address,
	asset token.Asset,
) error {
	vault, err := VaultAddress(addr, offer.AssetA)
	if err != nil {
		return err
	}
	locked, err := tokens.Balance(db, vault)
	if err != nil {
		return errors.Wrap(err, "vault")
	}

	ctx = swap.WithProgram(ctx, ProgramID)
	authority := offer.Authority()
	if err := tokens.TransferChecked(ctx, db, vault, to, locked, asset, authority); err != nil {
		return errors.Wrap(err, "empty vault")
	}
	if err := tokens.CloseAccount(ctx, db, vault, authority); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := bucket.Delete(db, addr); err != nil {
		return errors.Wrap(err, "close offer")
	}
	return nil
}
