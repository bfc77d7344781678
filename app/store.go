package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp serves the ABCI calls that need only the ledger state: the
// handshake, genesis, queries, block boundaries and commits. BaseApp
// embeds it and adds the transaction calls.
//
// Info, InitChain, BeginBlock, EndBlock and Commit carry no user input,
// so a failure there panics and halts the node.
type StoreApp struct {
	abci.BaseApplication

	logger      log.Logger
	name        string
	store       *CommitStore
	initializer swap.Initializer
	queryRouter swap.QueryRouter

	// chainID is empty until genesis was loaded.
	chainID string

	// baseContext lives as long as the app, blockContext is replaced on
	// every BeginBlock.
	baseContext  swap.Context
	blockContext swap.Context
}

// NewStoreApp opens the latest committed version of store. It panics
// if the state cannot be loaded.
func NewStoreApp(name string, store swap.CommitKVStore, queryRouter swap.QueryRouter, baseContext swap.Context) *StoreApp {
	cs, err := NewCommitStore(store)
	if err != nil {
		panic(err)
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s.WithLogger(log.NewNopLogger())

	if s.chainID, err = loadChainID(s.DeliverStore()); err != nil {
		panic(err)
	}
	if s.chainID != "" {
		s.baseContext = swap.WithChainID(s.baseContext, s.chainID)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = swap.WithHeight(s.baseContext, info.Version)
	return s
}

// GetChainID returns the chain id set at genesis, or an empty string.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets what InitChain loads the genesis state with.
func (s *StoreApp) WithInit(init swap.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the app and of every context it hands
// out.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = swap.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

// BlockContext returns the context of the current block.
func (s *StoreApp) BlockContext() swap.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() swap.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() swap.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis runs once, on the InitChain of a new chain.
func (s *StoreApp) loadGenesis(appState []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrHuman, "genesis already loaded for chain %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrHuman, "app_state missing from genesis.json")
	}
	var opts swap.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot parse app state: %s", err)
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return errors.Wrap(err, "cannot save chain id")
	}
	s.chainID = chainID
	s.baseContext = swap.WithChainID(s.baseContext, chainID)

	if s.initializer == nil {
		return nil
	}
	return errors.Wrap(s.initializer.FromGenesis(opts, s.DeliverStore()), "initialize from genesis")
}

// Info reports the last committed height and app hash.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// Query reads the last committed state. The path names a bucket or one
// of its indexes, as in "/offers" or "/offers/maker", optionally
// followed by "?prefix". Key and Value of the response are ResultSets
// of equal length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	h, mod := s.queryRouter.Route(req.Path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %s", req.Path))
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	models, err := h.Query(s.store.QueryStore(), mod, req.Data)
	if err != nil {
		return queryError(err)
	}

	keys, values, err := SplitModels(models)
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: info.Version, Key: keys, Value: values}
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

// InitChain loads the genesis state.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock starts the block context with its height and time.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := swap.WithHeight(s.baseContext, req.Header.GetHeight())
	s.blockContext = swap.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit persists the delivered block.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}
