// Command replay reconstructs book and tape state from a historical capture
// file and reports the result.
//
// Usage:
//
//	replay [-config path] [-symbol SYM] <capture.bin.lz4>
//
// The symbol defaults to the capture filename prefix (everything before the
// first underscore), matching the venue's capture naming scheme
// (e.g., BTC-USD@COINBASE_20230414.bin.lz4).
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rickgao/torobit-data/internal/capture"
	"github.com/rickgao/torobit-data/internal/config"
	"github.com/rickgao/torobit-data/internal/session"
	"github.com/rickgao/torobit-data/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	symbol := flag.String("symbol", "", "symbol carried by the capture (default: from filename)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: replay [-config path] [-symbol SYM] <capture.bin.lz4>")
		os.Exit(2)
	}
	capturePath := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	sym := *symbol
	if sym == "" {
		sym = symbolFromPath(capturePath)
	}

	logger.Info("starting replay",
		"version", version.Version,
		"capture", capturePath,
		"symbol", sym,
	)

	f, err := os.Open(capturePath)
	if err != nil {
		logger.Error("failed to open capture", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	decoder, err := capture.NewDecoder(f, sym)
	if err != nil {
		logger.Error("failed to read capture header", "error", err)
		os.Exit(1)
	}

	driver := session.New(logger)
	start := time.Now()

	if err := replay(driver, decoder, cfg.Capture.ReportEvery, logger); err != nil {
		logger.Error("replay aborted", "error", err, "stats", driver.Stats())
		os.Exit(1)
	}

	report(driver, logger)
	logger.Info("replay complete",
		"elapsed", time.Since(start),
		"stats", driver.Stats(),
	)
}

// replay runs the synchronous pull loop, reporting state every reportEvery
// messages when configured.
func replay(driver *session.Driver, decoder *capture.Decoder, reportEvery int, logger *slog.Logger) error {
	var count int
	for {
		msg, err := decoder.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		driver.Apply(msg)
		count++
		if reportEvery > 0 && count%reportEvery == 0 {
			report(driver, logger)
		}
	}
}

// report logs best bid/ask, level counts and last trade for every symbol.
func report(driver *session.Driver, logger *slog.Logger) {
	for _, sym := range driver.Symbols() {
		bids, asks := driver.Counts(sym)
		attrs := []any{
			"symbol", sym,
			"bid_levels", bids,
			"ask_levels", asks,
		}
		if best, ok := driver.BestBid(sym); ok {
			attrs = append(attrs, "best_bid", best.String())
		}
		if best, ok := driver.BestAsk(sym); ok {
			attrs = append(attrs, "best_ask", best.String())
		}
		if last, ok := driver.LastTrade(sym); ok {
			attrs = append(attrs,
				"trades", driver.TradeCount(sym),
				"last_trade_price", last.Price.String(),
				"last_trade_volume", last.Volume.String(),
			)
		}
		logger.Info("book state", attrs...)
	}
}

// symbolFromPath derives the capture symbol from its filename.
func symbolFromPath(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "_"); i > 0 {
		return name[:i]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
