package token

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/gconf"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/swaptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registry map[string]swap.Handler

func (r registry) Handle(m swap.Msg, h swap.Handler) {
	r[m.Path()] = h
}

func deliver(t *testing.T, reg registry, ctx swap.Context, db swap.KVStore, msg swap.Msg) (*swap.DeliverResult, error) {
	t.Helper()
	tx := &swaptest.Tx{Msg: msg}
	h, ok := reg[msg.Path()]
	require.True(t, ok, "no handler for %s", msg.Path())
	if _, err := h.Check(ctx, db, tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}

func TestCreateMintHandler(t *testing.T) {
	issuer := swaptest.NewAddress()
	alice := swaptest.NewAddress()

	cases := map[string]struct {
		issuer  swap.Address
		signers []swap.Address
		msg     *CreateMintMsg
		wantErr *errors.Error
	}{
		"anyone can create a mint without an issuer": {
			signers: []swap.Address{alice},
			msg:     &CreateMintMsg{Authority: alice, Seed: 1, Decimals: 6},
		},
		"authority must sign": {
			signers: []swap.Address{issuer},
			msg:     &CreateMintMsg{Authority: alice, Seed: 1, Decimals: 6},
			wantErr: errors.ErrUnauthorized,
		},
		"issuer must sign when configured": {
			issuer:  issuer,
			signers: []swap.Address{alice},
			msg:     &CreateMintMsg{Authority: alice, Seed: 1, Decimals: 6},
			wantErr: errors.ErrUnauthorized,
		},
		"issuer co-signs": {
			issuer:  issuer,
			signers: []swap.Address{alice, issuer},
			msg:     &CreateMintMsg{Authority: alice, Seed: 1, Decimals: 6},
		},
		"too precise": {
			signers: []swap.Address{alice},
			msg:     &CreateMintMsg{Authority: alice, Seed: 1, Decimals: MaxDecimals + 1},
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.issuer != nil {
				require.NoError(t, gconf.Save(db, confPkg, &Configuration{Issuer: tc.issuer}))
			}
			auth := &swaptest.Auth{Signers: tc.signers}
			ctrl := NewController(auth)
			reg := make(registry)
			RegisterRoutes(reg, auth, ctrl)

			res, err := deliver(t, reg, context.Background(), db, tc.msg)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)

			want, err := tc.msg.MintAddress()
			require.NoError(t, err)
			assert.Equal(t, []byte(want), res.Data)
			asset, err := ctrl.Asset(db, want)
			require.NoError(t, err)
			assert.Equal(t, tc.msg.Decimals, asset.Decimals)

			_, err = deliver(t, reg, context.Background(), db, tc.msg)
			assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)
		})
	}
}

func TestMintAndTransferHandlers(t *testing.T) {
	authority := swaptest.NewAddress()
	alice := swaptest.NewAddress()
	bob := swaptest.NewAddress()

	db := store.MemStore()
	auth := &swaptest.CtxAuth{Key: "signers"}
	ctrl := NewController(auth)
	reg := make(registry)
	RegisterRoutes(reg, auth, ctrl)

	create := &CreateMintMsg{Authority: authority, Decimals: 2}
	asAuthority := auth.SetSigners(context.Background(), authority)
	res, err := deliver(t, reg, asAuthority, db, create)
	require.NoError(t, err)
	mint := swap.Address(res.Data)

	_, err = deliver(t, reg, auth.SetSigners(context.Background(), alice), db, &MintToMsg{Mint: mint, Owner: alice, Amount: 500})
	assert.True(t, ErrAuthorityMismatch.Is(err), "got %+v", err)

	res, err = deliver(t, reg, asAuthority, db, &MintToMsg{Mint: mint, Owner: alice, Amount: 500})
	require.NoError(t, err)
	aliceAcc := swap.Address(res.Data)

	asAlice := auth.SetSigners(context.Background(), alice)
	transfer := &TransferMsg{Sender: alice, Recipient: bob, Mint: mint, Decimals: 2, Amount: 120}
	_, err = deliver(t, reg, asAlice, db, transfer)
	require.NoError(t, err)

	bobAcc, err := AssociatedAccount(bob, mint)
	require.NoError(t, err)
	balance, err := ctrl.Balance(db, aliceAcc)
	require.NoError(t, err)
	assert.Equal(t, uint64(380), balance)
	balance, err = ctrl.Balance(db, bobAcc)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), balance)

	// Wrong precision is refused.
	transfer.Decimals = 6
	_, err = deliver(t, reg, asAlice, db, transfer)
	assert.True(t, ErrAssetMismatch.Is(err), "got %+v", err)

	// Only the sender can move its funds.
	transfer.Decimals = 2
	_, err = deliver(t, reg, auth.SetSigners(context.Background(), bob), db, transfer)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	qr := swap.NewQueryRouter()
	RegisterQuery(qr)
	models, err := qr.Handler("/accounts/owner").Query(db, swap.KeyQueryMod, alice)
	require.NoError(t, err)
	require.Len(t, models, 1)
	var acc TokenAccount
	require.NoError(t, acc.Unmarshal(models[0].Value))
	assert.Equal(t, uint64(380), acc.Amount)

	models, err = qr.Handler("/mints").Query(db, swap.KeyQueryMod, mint)
	require.NoError(t, err)
	require.Len(t, models, 1)
}

func TestGenesis(t *testing.T) {
	const genesis = `{
		"conf": {"token": {"issuer": "hex:0101010101010101010101010101010101010101010101010101010101010101"}},
		"mints": [
			{"address": "hex:0202020202020202020202020202020202020202020202020202020202020202", "decimals": 9, "authority": "hex:0101010101010101010101010101010101010101010101010101010101010101"}
		],
		"accounts": [
			{"owner": "hex:0303030303030303030303030303030303030303030303030303030303030303", "mint": "hex:0202020202020202020202020202020202020202020202020202020202020202", "amount": 70},
			{"owner": "hex:0606060606060606060606060606060606060606060606060606060606060606", "mint": "hex:0202020202020202020202020202020202020202020202020202020202020202", "amount": 30}
		]
	}`
	var opts swap.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	conf, err := loadConf(db)
	require.NoError(t, err)
	assert.Equal(t, swap.MustParseAddress("hex:0101010101010101010101010101010101010101010101010101010101010101"), conf.Issuer)

	mint := swap.MustParseAddress("hex:0202020202020202020202020202020202020202020202020202020202020202")
	m, err := NewMintBucket().GetMint(db, mint)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, uint8(9), m.Decimals)
	assert.Equal(t, uint64(100), m.Supply)

	owner := swap.MustParseAddress("hex:0303030303030303030303030303030303030303030303030303030303030303")
	acc, err := AssociatedAccount(owner, mint)
	require.NoError(t, err)
	balance, err := NewController(nil).Balance(db, acc)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), balance)
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(swap.Options{}, db))

	conf, err := loadConf(db)
	require.NoError(t, err)
	assert.Empty(t, conf.Issuer)
}
