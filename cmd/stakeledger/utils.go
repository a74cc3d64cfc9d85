// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/gorilla/websocket"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/stakedb"
)

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("flag value %d overflows int", val)
	}
	return int(val), nil
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, logLevel)
	} else {
		output := io.Writer(os.Stdout)
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		if useColor {
			output = os.Stderr
		}
		handler = log.NewTerminalHandlerWithLevel(output, logLevel, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".stakeledger")
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 64 {
		sizeMB = 64
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/4 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 4)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openMainDB(dataDir string, cacheMB int) (*lvldb.LevelDB, error) {
	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func openStakeDB(dataDir string) (*stakedb.StakeDB, error) {
	dir := filepath.Join(dataDir, "events.db")
	db, err := stakedb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", dir)
	}
	log.Info("event database opened", "path", db.Path(), "sqlite", db.DriverVersion())
	return db, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// middleware to limit request body size.
func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 96*1000)
		h.ServeHTTP(w, r)
	})
}

// handleAPITimeout bounds the time of plain requests. Websocket upgrades are long lived and
// need the connection to be hijackable, so they bypass it.
func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	timed := http.TimeoutHandler(h, timeout, "request timeout")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			h.ServeHTTP(w, r)
			return
		}
		timed.ServeHTTP(w, r)
	})
}

// newAPIServer listens on addr and returns a server ready to serve handler.
func newAPIServer(addr string, handler http.Handler, timeout time.Duration) (*http.Server, net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout > 0 {
		handler = handleAPITimeout(handler, timeout)
	}
	handler = requestBodyLimit(handler)
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}, listener, nil
}
