// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/api"
	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/cmd/stakeledger/httpserver"
	"github.com/vechain/stakeledger/health"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/metrics"
	"github.com/vechain/stakeledger/stakedb"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	clockSyncInterval = 10 * time.Minute
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakeLedger",
		Usage:     "Staking ledger over a native token",
		Copyright: fmt.Sprintf("2025-%s VeChain Foundation <https://vechain.org/>", copyrightYear),
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiCallGasLimitFlag,
			apiLogsLimitFlag,
			apiBacktraceLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpServerFlag,
			clockToleranceFlag,
		},
		Action: action,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStores(ctx *cli.Context) (kv.Store, *stakedb.StakeDB, string, func(), error) {
	if !ctx.Bool(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, "", nil, err
		}
		stakeDB, err := stakedb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, nil, "", nil, err
		}
		return mainDB, stakeDB, "Memory", func() {
			stakeDB.Close()
			mainDB.Close()
		}, nil
	}

	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, nil, "", nil, err
	}
	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return nil, nil, "", nil, errors.Wrap(err, "parse cache flag")
	}
	mainDB, err := openMainDB(dataDir, normalizeCacheSize(cacheMB))
	if err != nil {
		return nil, nil, "", nil, err
	}
	stakeDB, err := openStakeDB(dataDir)
	if err != nil {
		mainDB.Close()
		return nil, nil, "", nil, err
	}
	return mainDB, stakeDB, dataDir, func() {
		log.Info("closing event database...")
		stakeDB.Close()
		log.Info("closing main database...")
		mainDB.Close()
	}, nil
}

func action(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	gene, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	mainDB, stakeDB, dataDir, closeStores, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer closeStores()

	callGasLimit := ctx.Uint64(apiCallGasLimitFlag.Name)
	l, err := ledger.New(mainDB, stakeDB, clock.New(), ledger.Options{CallGasLimit: callGasLimit})
	if err != nil {
		return err
	}
	deployed, err := l.ApplyGenesis(gene)
	if err != nil {
		return errors.Wrap(err, "apply genesis")
	}
	if deployed {
		log.Info("genesis applied", "deployer", gene.Deployer, "allocations", len(gene.Allocations))
	}

	tolerance := time.Duration(ctx.Uint64(clockToleranceFlag.Name)) * time.Millisecond
	healthStatus := health.New(tolerance, l.Now)

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		log.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, healthStatus)
		if err != nil {
			return fmt.Errorf("unable to start admin server - %w", err)
		}
		log.Info("admin server started", "url", url)
		defer closeFunc()
	}

	handler, closeSubs := api.New(l, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		CallGasLimit:         callGasLimit,
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
	})
	srv, listener, err := newAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}

	printStartupMessage(gene, dataDir, "http://"+listener.Addr().String()+"/")

	group, groupCtx := errgroup.WithContext(exitSignal)
	group.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Shutdown does not wait for hijacked websocket connections
		closeSubs()
		return srv.Shutdown(shutdownCtx)
	})
	if server := ctx.String(ntpServerFlag.Name); server != "" {
		group.Go(func() error {
			clock.SyncLoop(groupCtx, server, clockSyncInterval, tolerance, healthStatus.ClockChecked)
			return nil
		})
	}
	return group.Wait()
}

func printStartupMessage(gene *ledger.Genesis, dataDir, apiURL string) {
	fmt.Printf(`Starting %v
    Deployer       [ %v ]
    Token          [ %v %v ]
    Staking        [ %v ]
    Instance dir   [ %v ]
    API portal     [ %v ]
`,
		fullVersion(),
		gene.Deployer,
		gene.TokenSymbol, builtin.Token.Address,
		builtin.Staking.Address,
		dataDir,
		apiURL)
}
