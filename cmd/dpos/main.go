// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// dpos runs the staking, slashing and governance engine in a single process and serves it over HTTP.
package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sgnlabs/dpos/api"
	"github.com/sgnlabs/dpos/cmd/dpos/httpserver"
	"github.com/sgnlabs/dpos/cry"
	"github.com/sgnlabs/dpos/health"
	"github.com/sgnlabs/dpos/log"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/metrics"
	"github.com/sgnlabs/dpos/solo"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	// flags bound to the environment read it while parsing, so .env goes first
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "DPoS",
		Usage:     "Staking, slashing and governance engine for test & dev",
		Copyright: fmt.Sprintf("2025-%s SGN Labs", copyrightYear),
		Flags: []cli.Flag{
			dataDirFlag,
			persistFlag,
			genesisFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			blockIntervalFlag,
			onDemandFlag,
			historySizeFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { log.Info("exited") }()

	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	// metrics must be switched on before any meter is first used
	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.WithMessage(err, "start metrics server")
		}
		metricsURL = url
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB  *lvldb.LevelDB
		dataDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		if dataDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		if mainDB, err = openMainDB(ctx, dataDir); err != nil {
			return err
		}
	} else {
		mainDB = lvldb.NewMem()
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	blockInterval := ctx.Uint64(blockIntervalFlag.Name)
	onDemand := ctx.Bool(onDemandFlag.Name)
	if onDemand {
		blockInterval = 0
	}

	host, err := solo.New(mainDB, gene, cry.NewSigner(), solo.Options{
		BlockInterval: blockInterval,
		OnDemand:      onDemand,
		HistorySize:   ctx.Int(historySizeFlag.Name),
	})
	if err != nil {
		return err
	}

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	backtraceLimit := ctx.Uint64(apiBacktraceLimitFlag.Name)
	if backtraceLimit > uint64(^uint32(0)) {
		return fmt.Errorf("api-backtrace-limit %d overflows", backtraceLimit)
	}
	apiHandler, apiCloser := api.New(host, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       uint32(backtraceLimit),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      &apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	})
	defer func() { log.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		apiHandler,
		gene.ID(),
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	interval := time.Duration(blockInterval) * time.Second
	healthStatus := health.New(interval)

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(
			ctx.String(adminAddrFlag.Name),
			logLevel,
			healthStatus,
			&apiLogs,
		)
		if err != nil {
			return errors.WithMessage(err, "start admin server")
		}
		log.Info("admin server started", "url", url)
		defer func() { log.Info("stopping admin server..."); closeFunc() }()
	}

	printStartupMessage(gene, host.Head(), dataDir, apiURL, blockInterval, onDemand, ctx.String(genesisFlag.Name) == "")
	if metricsURL != "" {
		log.Info("metrics server started", "url", metricsURL)
	}

	if interval > 0 {
		go checkClockOffset(interval)
	}

	group, groupCtx := errgroup.WithContext(exitSignal)
	group.Go(func() error {
		host.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		healthStatus.Watch(groupCtx, host)
		return nil
	})
	return group.Wait()
}
