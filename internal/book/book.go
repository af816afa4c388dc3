package book

import "github.com/rickgao/torobit-data/internal/model"

// Book is the reconstructed order book for one symbol. Not safe for
// concurrent use; the session driver serializes all access per symbol.
type Book struct {
	symbol string
	bids   map[model.FixedPoint]model.FixedPoint
	asks   map[model.FixedPoint]model.FixedPoint
}

// New creates an empty book for symbol.
func New(symbol string) *Book {
	return &Book{
		symbol: symbol,
		bids:   make(map[model.FixedPoint]model.FixedPoint),
		asks:   make(map[model.FixedPoint]model.FixedPoint),
	}
}

// Symbol returns the symbol this book tracks.
func (b *Book) Symbol() string {
	return b.symbol
}

// Apply applies one depth update. A snapshot update clears both sides first.
// Positive volume upserts the level; zero or negative volume removes it, and
// removing an absent level is a no-op.
func (b *Book) Apply(u *model.DepthUpdate) {
	if u.Snapshot {
		clear(b.bids)
		clear(b.asks)
	}

	side := b.asks
	if u.Side == model.SideBid {
		side = b.bids
	}

	if u.Volume > 0 {
		side[u.Price] = u.Volume
	} else {
		delete(side, u.Price)
	}
}

// BestBid returns the highest bid price, or false if there are no bids.
func (b *Book) BestBid() (model.FixedPoint, bool) {
	return maxKey(b.bids)
}

// BestAsk returns the lowest ask price, or false if there are no asks.
func (b *Book) BestAsk() (model.FixedPoint, bool) {
	return minKey(b.asks)
}

// Volume returns the resting volume at price on the given side, or false if
// no such level exists.
func (b *Book) Volume(side model.Side, price model.FixedPoint) (model.FixedPoint, bool) {
	m := b.asks
	if side == model.SideBid {
		m = b.bids
	}
	v, ok := m[price]
	return v, ok
}

// Counts returns the number of bid and ask levels.
func (b *Book) Counts() (bids, asks int) {
	return len(b.bids), len(b.asks)
}

func maxKey(m map[model.FixedPoint]model.FixedPoint) (model.FixedPoint, bool) {
	var best model.FixedPoint
	found := false
	for p := range m {
		if !found || p > best {
			best = p
			found = true
		}
	}
	return best, found
}

func minKey(m map[model.FixedPoint]model.FixedPoint) (model.FixedPoint, bool) {
	var best model.FixedPoint
	found := false
	for p := range m {
		if !found || p < best {
			best = p
			found = true
		}
	}
	return best, found
}
