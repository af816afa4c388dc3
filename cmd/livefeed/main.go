// Command livefeed reconstructs book and tape state from the venue's live
// WebSocket feed and periodically reports it.
//
// The feed core never retries: this command owns the reconnect policy,
// redialing with exponential backoff and resubscribing after every drop. Book
// state survives reconnects; the server's first depth payload after a
// resubscribe is a snapshot and resets each symbol cleanly.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/torobit-data/internal/config"
	"github.com/rickgao/torobit-data/internal/feed"
	"github.com/rickgao/torobit-data/internal/session"
	"github.com/rickgao/torobit-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/livefeed.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting livefeed",
		"version", version.Version,
		"instance_id", cfg.Instance.ID,
		"url", cfg.Feed.URL,
		"symbols", cfg.Feed.Symbols,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	driver := session.New(logger)

	delay := cfg.Feed.ReconnectBaseDelay
	for {
		err := runSession(ctx, cfg, driver, logger)
		if err == nil || errors.Is(err, context.Canceled) {
			break
		}

		logger.Warn("feed session ended", "error", err, "retry_in", delay)
		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
		if ctx.Err() != nil {
			break
		}

		delay *= 2
		if delay > cfg.Feed.ReconnectMaxDelay {
			delay = cfg.Feed.ReconnectMaxDelay
		}
	}

	report(driver, logger)
	logger.Info("livefeed stopped", "stats", driver.Stats())
}

// runSession dials the feed, subscribes, and applies messages until the
// connection drops or ctx is canceled. Returns nil only on clean shutdown.
func runSession(ctx context.Context, cfg *config.Config, driver *session.Driver, logger *slog.Logger) error {
	client := feed.NewClient(feed.ClientConfig{
		URL:          cfg.Feed.URL,
		PingInterval: cfg.Feed.PingInterval,
		ReadTimeout:  cfg.Feed.ReadTimeout,
		WriteTimeout: cfg.Feed.WriteTimeout,
		BufferSize:   cfg.Feed.BufferSize,
	}, logger)

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	if err := subscribe(client, cfg.Feed.Symbols); err != nil {
		return err
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-client.Errors():
			return err
		case <-ticker.C:
			report(driver, logger)
		case raw, ok := <-client.Messages():
			if !ok {
				return errors.New("feed connection closed")
			}
			msgs, err := feed.Normalize(raw.Data)
			if err != nil {
				// Malformed payloads are isolated to the message.
				logger.Warn("skipping malformed message", "error", err)
				continue
			}
			for _, msg := range msgs {
				driver.Apply(msg)
			}
		}
	}
}

// subscribe requests the symbol directory plus depth and trades for every
// configured symbol.
func subscribe(client feed.Client, symbols []string) error {
	if err := client.Send(feed.RequestSymbols()); err != nil {
		return err
	}
	for _, sym := range symbols {
		if err := client.Send(feed.SubscribeDepth(sym)); err != nil {
			return err
		}
		if err := client.Send(feed.SubscribeTrades(sym)); err != nil {
			return err
		}
	}
	return nil
}

// report logs best bid/ask, level counts and last trade per symbol.
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
			)
		}
		logger.Info("book state", attrs...)
	}
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
