package feed

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
	ErrMalformed     = errors.New("malformed message")
)

// TimestampedMessage wraps raw message data with its receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from the WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Command is an outbound message to the feed server.
type Command struct {
	Message CommandMessage `json:"Message"`
}

// CommandMessage holds exactly one request; the populated field selects it.
type CommandMessage struct {
	SymbolsRequest *struct{}      `json:"SymbolsRequest,omitempty"`
	MarketDepth    *SymbolRequest `json:"MarketDepth,omitempty"`
	PublicTrades   *SymbolRequest `json:"PublicTrades,omitempty"`
}

// SymbolRequest subscribes one symbol to a channel.
type SymbolRequest struct {
	Symbol string `json:"Symbol"`
}

// RequestSymbols asks the server for its symbol directory.
func RequestSymbols() Command {
	return Command{Message: CommandMessage{SymbolsRequest: &struct{}{}}}
}

// SubscribeDepth subscribes to market depth for symbol.
func SubscribeDepth(symbol string) Command {
	return Command{Message: CommandMessage{MarketDepth: &SymbolRequest{Symbol: symbol}}}
}

// SubscribeTrades subscribes to public trades for symbol.
func SubscribeTrades(symbol string) Command {
	return Command{Message: CommandMessage{PublicTrades: &SymbolRequest{Symbol: symbol}}}
}

// Envelope is an inbound feed message. The server keys each payload by type;
// unrecognized keys simply leave every field nil.
type Envelope struct {
	MarketDepth  *MarketDepthMsg  `json:"MarketDepth,omitempty"`
	PublicTrade  *PublicTradeMsg  `json:"PublicTrade,omitempty"`
	PublicTrades []PublicTradeMsg `json:"PublicTrades,omitempty"`
	Symbols      json.RawMessage  `json:"Symbols,omitempty"`
}

// PriceLevel is one price/volume entry of a depth payload. Values arrive as
// already-scaled decimals; decimal.Decimal keeps them exact until they are
// converted to fixed point.
type PriceLevel struct {
	Price  decimal.Decimal `json:"Price"`
	Volume decimal.Decimal `json:"Volume"`
}

// MarketDepthMsg is a depth payload for one symbol. IsUpdate false marks a
// full snapshot: the receiver discards prior state before applying the levels.
type MarketDepthMsg struct {
	Symbol   string       `json:"Symbol"`
	IsUpdate bool         `json:"IsUpdate"`
	Bids     []PriceLevel `json:"Bids"`
	Asks     []PriceLevel `json:"Asks"`
}

// PublicTradeMsg is one executed trade.
type PublicTradeMsg struct {
	Symbol    string          `json:"Symbol"`
	Timestamp int64           `json:"Timestamp"`
	Price     decimal.Decimal `json:"Price"`
	Volume    decimal.Decimal `json:"Volume"`
	TradeID   int64           `json:"Id"`
}

// ClientConfig configures the WebSocket client.
type ClientConfig struct {
	URL          string        // Feed URL (e.g., ws://ws-feed.torobit.io:4444)
	PingInterval time.Duration // Interval between client pings
	ReadTimeout  time.Duration // Read deadline, refreshed on every message and pong
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingInterval: 15 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   10000,
	}
}
