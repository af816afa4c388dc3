package model

// Side identifies which half of the book a depth update targets.
type Side uint8

const (
	SideAsk Side = iota
	SideBid
)

// String returns "bid" or "ask".
func (s Side) String() string {
	if s == SideBid {
		return "bid"
	}
	return "ask"
}

// DepthUpdate is a change to a single price level on one side of a book.
type DepthUpdate struct {
	Symbol   string     // Venue symbol
	Side     Side       // Bid or ask
	Price    FixedPoint // Price level
	Volume   FixedPoint // New resting volume; <= 0 removes the level
	Snapshot bool       // True if the book must be cleared before applying
}

// Trade is one executed trade reported by the venue.
type Trade struct {
	Symbol     string     // Venue symbol
	ExchangeTS int64      // Venue timestamp, passed through unchanged
	Price      FixedPoint // Execution price
	Volume     FixedPoint // Executed volume
	TradeID    int64      // Venue trade ID (0 when the source carries none)
}

// UnknownFrame records a historical frame whose type code is not recognized.
// The frame is skipped by its declared length but surfaced rather than
// silently dropped, so callers can count and log it.
type UnknownFrame struct {
	WireType int16 // Type code from the frame header
	Length   int16 // Declared record length used to skip it
}

// Message is the canonical event union. Exactly one field is non-nil.
type Message struct {
	Depth   *DepthUpdate
	Trade   *Trade
	Unknown *UnknownFrame
}
