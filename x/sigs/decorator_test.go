package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/crypto"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/swaptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	const chainID = "sigs-deco"
	ctx := swap.WithChainID(context.Background(), chainID)
	maker := crypto.GenPrivKeyEd25519()
	makerAddr := maker.PublicKey().Address()

	signed := func(t *testing.T, seqs ...int64) *StdTx {
		tx := NewStdTx([]byte("make offer"))
		for _, seq := range seqs {
			sig, err := SignTx(maker, tx, chainID, seq)
			require.NoError(t, err)
			tx.Signatures = append(tx.Signatures, sig)
		}
		return tx
	}

	cases := map[string]struct {
		dec         Decorator
		tx          func(t *testing.T) swap.Tx
		wantErr     *errors.Error
		wantSigners []swap.Address
	}{
		"signed": {
			dec:         NewDecorator(),
			tx:          func(t *testing.T) swap.Tx { return signed(t, 0) },
			wantSigners: []swap.Address{makerAddr},
		},
		"no signature": {
			dec:     NewDecorator(),
			tx:      func(t *testing.T) swap.Tx { return signed(t) },
			wantErr: errors.ErrUnauthorized,
		},
		"no signature allowed": {
			dec:         NewDecorator().AllowMissingSigs(),
			tx:          func(t *testing.T) swap.Tx { return signed(t) },
			wantSigners: []swap.Address{},
		},
		"future nonce": {
			dec:     NewDecorator(),
			tx:      func(t *testing.T) swap.Tx { return signed(t, 3) },
			wantErr: ErrInvalidSequence,
		},
		"same signer twice": {
			dec:     NewDecorator(),
			tx:      func(t *testing.T) swap.Tx { return signed(t, 0, 0) },
			wantErr: ErrInvalidSequence,
		},
		"not a signed tx": {
			dec: NewDecorator(),
			tx: func(*testing.T) swap.Tx {
				return &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/sigs"}}
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			for _, call := range []string{"check", "deliver"} {
				db := store.MemStore()
				h := new(SigCheckHandler)
				var err error
				if call == "check" {
					_, err = tc.dec.Check(ctx, db, tc.tx(t), h)
				} else {
					_, err = tc.dec.Deliver(ctx, db, tc.tx(t), h)
				}
				if tc.wantErr != nil {
					assert.True(t, tc.wantErr.Is(err), "%s: %+v", call, err)
					nonce, err := NextNonce(db, makerAddr)
					require.NoError(t, err)
					assert.Equal(t, int64(0), nonce, call)
					continue
				}
				require.NoError(t, err, call)
				assert.Equal(t, tc.wantSigners, h.Signers, call)
			}
		})
	}
}

func TestDecoratorRejectsReplay(t *testing.T) {
	const chainID = "sigs-replay"
	ctx := swap.WithChainID(context.Background(), chainID)
	db := store.MemStore()
	taker := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("take offer"))
	sig, err := SignTx(taker, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	_, err = NewDecorator().Deliver(ctx, db, tx, new(SigCheckHandler))
	require.NoError(t, err)
	_, err = NewDecorator().Deliver(ctx, db, tx, new(SigCheckHandler))
	assert.True(t, ErrInvalidSequence.Is(err))

	next, err := SignTx(taker, tx, chainID, 1)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{next}
	_, err = NewDecorator().Deliver(ctx, db, tx, new(SigCheckHandler))
	require.NoError(t, err)
}

func TestDecoratorChargesGas(t *testing.T) {
	const chainID = "sigs-gas"
	ctx := swap.WithChainID(context.Background(), chainID)
	one, two := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("refund offer"))
	for _, key := range []*crypto.PrivateKey{one, two} {
		sig, err := SignTx(key, tx, chainID, 0)
		require.NoError(t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}

	res, err := NewDecorator().Check(ctx, store.MemStore(), tx, new(SigCheckHandler))
	require.NoError(t, err)
	assert.Equal(t, int64(2*signatureVerifyCost), res.GasAllocated)
}
