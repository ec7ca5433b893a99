// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sgnlabs/dpos/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the engine database",
		EnvVar: "DPOS_DATA_DIR",
	}
	persistFlag = cli.BoolFlag{
		Name:   "persist",
		Usage:  "state storage option, if set data will be saved to disk",
		EnvVar: "DPOS_PERSIST",
	}
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Usage:  "path to a genesis file (YAML or JSON), if not set, the default devnet genesis will be used",
		EnvVar: "DPOS_GENESIS",
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		Usage:  "megabytes of ram allocated to the database cache",
		Value:  256,
		EnvVar: "DPOS_CACHE",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		Usage:  "API service listening address",
		EnvVar: "DPOS_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "DPOS_API_CORS",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:   "api-timeout",
		Value:  10000,
		Usage:  "API request timeout value in milliseconds",
		EnvVar: "DPOS_API_TIMEOUT",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:   "api-backtrace-limit",
		Value:  1000,
		Usage:  "limit the distance between 'position' and the next block for subscriptions",
		EnvVar: "DPOS_API_BACKTRACE_LIMIT",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: "DPOS_ENABLE_API_LOGS",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:   "api-slow-queries-threshold",
		Value:  0,
		Usage:  "all queries with execution time(ms) above threshold will be logged",
		EnvVar: "DPOS_API_SLOW_QUERIES_THRESHOLD",
	}
	blockIntervalFlag = cli.Uint64Flag{
		Name:   "block-interval",
		Value:  10,
		Usage:  "seconds between packed blocks (0 packs only on demand or never)",
		EnvVar: "DPOS_BLOCK_INTERVAL",
	}
	onDemandFlag = cli.BoolFlag{
		Name:   "on-demand",
		Usage:  "create a new block right after every successful call",
		EnvVar: "DPOS_ON_DEMAND",
	}
	historySizeFlag = cli.IntFlag{
		Name:   "history-size",
		Value:  1024,
		Usage:  "number of recent blocks whose events are kept for subscriptions",
		EnvVar: "DPOS_HISTORY_SIZE",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  log.LegacyLevelInfo,
		Usage:  "log verbosity (0-9)",
		EnvVar: "DPOS_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		Usage:  "output logs in JSON format",
		EnvVar: "DPOS_JSON_LOGS",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "DPOS_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: "DPOS_METRICS_ADDR",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:   "enable-admin",
		Usage:  "enables admin server",
		EnvVar: "DPOS_ENABLE_ADMIN",
	}
	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		Value:  "localhost:2113",
		Usage:  "admin service listening address",
		EnvVar: "DPOS_ADMIN_ADDR",
	}
)
