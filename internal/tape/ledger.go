package tape

import "github.com/rickgao/torobit-data/internal/model"

// Entry is one recorded trade.
type Entry struct {
	ExchangeTS int64            // Venue timestamp
	Price      model.FixedPoint // Execution price
	Volume     model.FixedPoint // Executed volume
	TradeID    int64            // Venue trade ID (0 when absent)
}

// Ledger is the trade history for one symbol. Not safe for concurrent use;
// the session driver serializes all access per symbol.
type Ledger struct {
	symbol  string
	entries []Entry
}

// New creates an empty ledger for symbol.
func New(symbol string) *Ledger {
	return &Ledger{symbol: symbol}
}

// Symbol returns the symbol this ledger tracks.
func (l *Ledger) Symbol() string {
	return l.symbol
}

// Record appends a trade unconditionally.
func (l *Ledger) Record(t *model.Trade) {
	l.entries = append(l.entries, Entry{
		ExchangeTS: t.ExchangeTS,
		Price:      t.Price,
		Volume:     t.Volume,
		TradeID:    t.TradeID,
	})
}

// Last returns the most recently recorded entry, or false if no trade has
// been recorded.
func (l *Ledger) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Count returns the number of recorded trades.
func (l *Ledger) Count() int {
	return len(l.entries)
}
