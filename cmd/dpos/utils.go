// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sgnlabs/dpos/genesis"
	"github.com/sgnlabs/dpos/log"
	"github.com/sgnlabs/dpos/lvldb"
	"github.com/sgnlabs/dpos/thor"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > uint64(^uint(0)>>1) {
		return 0, fmt.Errorf("flag value %d overflows int", val)
	}
	return int(val), nil
}

func initLogger(lvl int, jsonLogs bool) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(lvl)
	output := io.Writer(os.Stdout)
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"

	var level slog.LevelVar
	level.Set(logLevel)

	var handler slog.Handler
	if jsonLogs {
		handler = log.JSONHandlerWithLevel(output, &level)
	} else {
		handler = log.NewTerminalHandlerWithLevel(output, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}

	gen, err := genesis.Load(path)
	if err != nil {
		return nil, err
	}
	customGen, err := genesis.NewCustomNet(gen)
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	return customGen, nil
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.sgnlabs.dpos")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.sgnlabs.dpos")
		}
		return filepath.Join(home, ".org.sgnlabs.dpos")
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, dir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	log.Debug("cache size(MB)", "size", cacheMB)

	fdCache := suggestFDCache()
	log.Debug("fd cache", "n", fdCache)

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open engine database [%v]", path)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		log.Warn("failed to get fd limit", "err", err)
		return 16
	}
	if limit <= 1024 {
		log.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
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

// checkClockOffset warns when the local clock drifts by more than half a block interval.
func checkClockOffset(blockInterval time.Duration) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		log.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > blockInterval/2 {
		log.Warn("clock offset detected", "offset", resp.ClockOffset.String())
	}
}

func printStartupMessage(
	gene *genesis.Genesis,
	head uint32,
	dataDir string,
	apiURL string,
	blockInterval uint64,
	onDemand bool,
	devnet bool,
) {
	packing := fmt.Sprintf("every %ds", blockInterval)
	switch {
	case onDemand:
		packing = "on demand"
	case blockInterval == 0:
		packing = "manual"
	}

	info := fmt.Sprintf(`Starting %v
    Network     [ %v %v ]
    Head        [ #%v ]
    Packing     [ %v ]
    Data dir    [ %v ]
    API portal  [ %v ]
`,
		"DPoS solo "+fullVersion(),
		gene.ID(), gene.Name(),
		head,
		packing,
		dataDir,
		apiURL)

	if devnet {
		info += devAccountsTable()
	}
	fmt.Print(info)
}

func devAccountsTable() string {
	tableHead := `┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘
`

	var b strings.Builder
	b.WriteString(tableHead)
	for _, a := range genesis.DevAccounts() {
		fmt.Fprintf(&b, tableContent,
			a.Address,
			thor.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	b.WriteString(tableEnd)
	return b.String()
}
