package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/swap/app"
	swapd "github.com/iov-one/swap/cmd/swapd/app"
	"github.com/iov-one/swap/errors"
	"github.com/tendermint/tendermint/abci/server"
)

func main() {
	home := flag.String("home", "", "directory holding config.toml and the ledger database (env SWAP_HOME)")
	flag.Parse()

	if err := run(*home); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(home string) error {
	conf, err := app.LoadConfig(home)
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}
	logger, err := conf.NewLogger(os.Stdout)
	if err != nil {
		return err
	}

	base, db, err := swapd.GenerateApp(conf, logger)
	if err != nil {
		return errors.Wrap(err, "create application")
	}
	defer db.Close()

	logger.Info("Starting ABCI app", "bind", conf.Bind, "db", conf.DataDir())
	svr, err := server.NewServer(conf.Bind, "socket", base)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "start server: %s", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	logger.Info("Shutting down", "signal", sig.String())
	return svr.Stop()
}
