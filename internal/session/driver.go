package session

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/rickgao/torobit-data/internal/book"
	"github.com/rickgao/torobit-data/internal/model"
	"github.com/rickgao/torobit-data/internal/tape"
)

// MessageSource is a pull source of canonical messages. Next returns io.EOF
// at the normal end of the stream; any other error is fatal for the stream.
type MessageSource interface {
	Next() (model.Message, error)
}

// Stats counts messages seen by the driver.
type Stats struct {
	Applied      int64 // Total messages applied (including unknown)
	DepthUpdates int64
	Trades       int64
	Unknown      int64
}

// Driver routes canonical messages to per-symbol books and ledgers.
type Driver struct {
	logger *slog.Logger

	books   map[string]*book.Book
	ledgers map[string]*tape.Ledger

	stats Stats
}

// New creates an empty driver.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		logger:  logger,
		books:   make(map[string]*book.Book),
		ledgers: make(map[string]*tape.Ledger),
	}
}

// Apply routes one message to the owning book or ledger, creating state for
// new symbols lazily. Unknown messages are counted and logged, never applied.
func (d *Driver) Apply(msg model.Message) {
	d.stats.Applied++

	switch {
	case msg.Depth != nil:
		d.stats.DepthUpdates++
		d.bookFor(msg.Depth.Symbol).Apply(msg.Depth)
	case msg.Trade != nil:
		d.stats.Trades++
		d.ledgerFor(msg.Trade.Symbol).Record(msg.Trade)
	case msg.Unknown != nil:
		d.stats.Unknown++
		d.logger.Debug("skipped unknown frame",
			"wire_type", msg.Unknown.WireType,
			"length", msg.Unknown.Length,
		)
	}
}

// Run pulls messages from src and applies them until the source is exhausted
// or ctx is canceled. io.EOF from the source ends the run cleanly; any other
// source error is returned as the stream failure.
func (d *Driver) Run(ctx context.Context, src MessageSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		d.Apply(msg)
	}
}

// BestBid returns the highest bid for symbol, or false if the symbol has no
// book or the bid side is empty.
func (d *Driver) BestBid(symbol string) (model.FixedPoint, bool) {
	b, ok := d.books[symbol]
	if !ok {
		return 0, false
	}
	return b.BestBid()
}

// BestAsk returns the lowest ask for symbol, or false if the symbol has no
// book or the ask side is empty.
func (d *Driver) BestAsk(symbol string) (model.FixedPoint, bool) {
	b, ok := d.books[symbol]
	if !ok {
		return 0, false
	}
	return b.BestAsk()
}

// Counts returns the bid and ask level counts for symbol; both zero if the
// symbol has no book.
func (d *Driver) Counts(symbol string) (bids, asks int) {
	b, ok := d.books[symbol]
	if !ok {
		return 0, 0
	}
	return b.Counts()
}

// LastTrade returns the most recent trade for symbol, or false if none.
func (d *Driver) LastTrade(symbol string) (tape.Entry, bool) {
	l, ok := d.ledgers[symbol]
	if !ok {
		return tape.Entry{}, false
	}
	return l.Last()
}

// TradeCount returns the number of recorded trades for symbol.
func (d *Driver) TradeCount(symbol string) int {
	l, ok := d.ledgers[symbol]
	if !ok {
		return 0
	}
	return l.Count()
}

// Symbols returns every symbol with a book or ledger, sorted.
func (d *Driver) Symbols() []string {
	seen := make(map[string]struct{}, len(d.books)+len(d.ledgers))
	for s := range d.books {
		seen[s] = struct{}{}
	}
	for s := range d.ledgers {
		seen[s] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Stats returns message counters for the session so far.
func (d *Driver) Stats() Stats {
	return d.stats
}

func (d *Driver) bookFor(symbol string) *book.Book {
	b, ok := d.books[symbol]
	if !ok {
		b = book.New(symbol)
		d.books[symbol] = b
	}
	return b
}

func (d *Driver) ledgerFor(symbol string) *tape.Ledger {
	l, ok := d.ledgers[symbol]
	if !ok {
		l = tape.New(symbol)
		d.ledgers[symbol] = l
	}
	return l
}
