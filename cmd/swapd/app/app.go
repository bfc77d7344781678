/*
Package app links together all the various components
to construct the swapd app.
*/
package app

import (
	"context"
	"io"
	"path/filepath"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/app"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store/leveldb"
	"github.com/iov-one/swap/x"
	"github.com/iov-one/swap/x/offer"
	"github.com/iov-one/swap/x/sigs"
	"github.com/iov-one/swap/x/token"
	"github.com/iov-one/swap/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the ABCI Info call.
const Name = "swapd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, tagging and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
		utils.NewKeyTagger(),
	)
}

// Router returns a default router, dispatching to the sigs, token
// and offer handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	tokens := token.NewController(authFn)
	sigs.RegisterRoutes(r, authFn)
	token.RegisterRoutes(r, authFn, tokens)
	offer.RegisterRoutes(r, authFn, tokens)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/mints", "/accounts" and "/offers"
func QueryRouter() swap.QueryRouter {
	r := swap.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		token.RegisterQuery,
		offer.RegisterQuery,
	)
	return r
}

// Initializer loads the token configuration, the mints and the
// funded accounts from the genesis file.
func Initializer() swap.Initializer {
	return swap.ChainInitializers(
		&token.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() swap.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h swap.Handler, tx swap.TxDecoder, kv swap.CommitKVStore, debug bool) app.BaseApp {
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background()).
		WithInit(Initializer())
	return app.NewBaseApp(store, tx, h, debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path keeps everything
// in memory.
func CommitKVStore(dbPath string) (*leveldb.CommitStore, error) {
	if dbPath == "" {
		return leveldb.NewMemCommitStore()
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database path %q: %s", dbPath, err)
	}
	return leveldb.NewCommitStore(path)
}

// GenerateApp is used to create a stub for server/start.go command. The
// returned closer releases the database.
func GenerateApp(conf *app.Config, logger log.Logger) (app.BaseApp, io.Closer, error) {
	kv, err := CommitKVStore(conf.DataDir())
	if err != nil {
		return app.BaseApp{}, nil, err
	}
	base := Application(Name, Stack(), TxDecoder, kv, conf.Debug)
	base.WithLogger(logger)
	return base, kv, nil
}
