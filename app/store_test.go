package app

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store/leveldb"
	"github.com/iov-one/swap/swaptest"
	"github.com/iov-one/swap/swaptest/assert"
	"github.com/iov-one/swap/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
)

// keyQuery returns the value stored under the query data.
type keyQuery struct{}

func (keyQuery) Query(db swap.ReadOnlyKVStore, mod string, data []byte) ([]swap.Model, error) {
	if mod != swap.KeyQueryMod {
		return nil, errors.Wrap(errors.ErrInvalidInput, "unsupported modifier")
	}
	val, err := db.Get(data)
	if err != nil || val == nil {
		return nil, err
	}
	return []swap.Model{swap.Pair(data, val)}, nil
}

// pathDecoder builds a transaction whose message path is the raw input.
func pathDecoder(raw []byte) (swap.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty transaction")
	}
	return &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: string(raw)}}, nil
}

func newTestApp(t testing.TB) (BaseApp, *leveldb.CommitStore) {
	t.Helper()
	db, err := leveldb.NewMemCommitStore()
	assert.Nil(t, err)

	qr := swap.NewQueryRouter()
	qr.Register("/", keyQuery{})

	r := NewRouter()
	r.Handle(&swaptest.Msg{RoutePath: "test/write"}, &swaptest.WriteHandler{
		Key:   []byte("written"),
		Value: []byte("yes"),
	})
	r.Handle(&swaptest.Msg{RoutePath: "test/fail"}, &swaptest.WriteHandler{
		Key:   []byte("failed"),
		Value: []byte("yes"),
		Err:   errors.ErrInvalidState,
	})
	r.Handle(&swaptest.Msg{RoutePath: "test/panic"}, swaptest.PanicHandler{Value: "boom"})

	store := NewStoreApp("test-app", db, qr, context.Background()).
		WithInit(swap.ChainInitializers(dummyInit{}))
	handler := ChainDecorators(
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)
	return NewBaseApp(store, pathDecoder, handler, false), db
}

func TestAppLifecycle(t *testing.T) {
	app, db := newTestApp(t)
	defer db.Close()

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, "test-app", info.Data)
	assert.Equal(t, int64(0), info.LastBlockHeight)

	app.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"dummy": "hello"}`),
	})
	assert.Equal(t, "test-chain-1", app.GetChainID())

	now := time.Now().UTC()
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: now}})
	height, ok := swap.GetHeight(app.BlockContext())
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(1), height)
	blockTime, err := swap.BlockTime(app.BlockContext())
	assert.Nil(t, err)
	assert.Equal(t, now, blockTime)
	assert.Equal(t, "test-chain-1", swap.GetChainID(app.BlockContext()))

	chk := app.CheckTx([]byte("test/write"))
	assert.Equal(t, uint32(0), chk.Code)

	dres := app.DeliverTx([]byte("test/write"))
	assert.Equal(t, uint32(0), dres.Code)

	dres = app.DeliverTx([]byte("test/fail"))
	assert.Equal(t, errors.ErrInvalidState.ABCICode(), dres.Code)

	dres = app.DeliverTx([]byte("test/panic"))
	assert.Equal(t, errors.ErrPanic.ABCICode(), dres.Code)

	dres = app.DeliverTx([]byte("test/unknown"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), dres.Code)

	dres = app.DeliverTx(nil)
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), dres.Code)

	// nothing is visible to queries before the commit
	qres := app.Query(abci.RequestQuery{Path: "/", Data: []byte("written")})
	assert.Equal(t, uint32(0), qres.Code)
	assertResults(t, qres.Value, 0)

	app.EndBlock(abci.RequestEndBlock{Height: 1})
	cres := app.Commit()
	assert.Equal(t, 32, len(cres.Data))

	qres = app.Query(abci.RequestQuery{Path: "/", Data: []byte("written")})
	assert.Equal(t, uint32(0), qres.Code)
	assert.Equal(t, int64(1), qres.Height)
	var val []byte
	assert.Nil(t, UnmarshalFirst(qres.Value, rawValue{&val}))
	assert.Equal(t, []byte("yes"), val)

	qres = app.Query(abci.RequestQuery{Path: "/", Data: []byte("dummy")})
	assert.Nil(t, UnmarshalFirst(qres.Value, rawValue{&val}))
	assert.Equal(t, []byte("hello"), val)

	// failed and panicking transactions left no state behind
	qres = app.Query(abci.RequestQuery{Path: "/", Data: []byte("failed")})
	assertResults(t, qres.Value, 0)

	qres = app.Query(abci.RequestQuery{Path: "/?prefix", Data: []byte("written")})
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), qres.Code)

	qres = app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), qres.Code)

	info = app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, cres.Data, info.LastBlockAppHash)
}

func TestAppRestoresChainID(t *testing.T) {
	dbpath, cleanup := tempDir(t)
	defer cleanup()

	db, err := leveldb.NewCommitStore(dbpath)
	assert.Nil(t, err)
	app := NewStoreApp("test-app", db, swap.NewQueryRouter(), context.Background())
	app.InitChain(abci.RequestInitChain{ChainId: "restored-chain", AppStateBytes: []byte(`{}`)})
	app.Commit()
	assert.Nil(t, db.Close())

	db, err = leveldb.NewCommitStore(dbpath)
	assert.Nil(t, err)
	defer db.Close()
	app = NewStoreApp("test-app", db, swap.NewQueryRouter(), context.Background())
	assert.Equal(t, "restored-chain", app.GetChainID())
	height, _ := swap.GetHeight(app.BlockContext())
	assert.Equal(t, int64(1), height)

	// a second genesis is refused
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "other-chain", AppStateBytes: []byte(`{}`)})
	})
}

func TestInitChainRequiresAppState(t *testing.T) {
	db, err := leveldb.NewMemCommitStore()
	assert.Nil(t, err)
	defer db.Close()
	app := NewStoreApp("test-app", db, swap.NewQueryRouter(), context.Background())

	cases := map[string]abci.RequestInitChain{
		"missing app state": {ChainId: "test-chain-1"},
		"malformed json":    {ChainId: "test-chain-1", AppStateBytes: []byte(`{`)},
		"invalid chain id":  {ChainId: "x", AppStateBytes: []byte(`{}`)},
	}
	for testName, req := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Panics(t, func() { app.InitChain(req) })
			assert.Equal(t, "", app.GetChainID())
		})
	}
}

// rawValue copies the raw bytes of a result.
type rawValue struct {
	dst *[]byte
}

func (r rawValue) Marshal() ([]byte, error) {
	return *r.dst, nil
}

func (r rawValue) Unmarshal(raw []byte) error {
	*r.dst = raw
	return nil
}

func assertResults(t testing.TB, raw []byte, want int) {
	t.Helper()
	var set ResultSet
	assert.Nil(t, set.Unmarshal(raw))
	assert.Equal(t, want, len(set.Results))
}
