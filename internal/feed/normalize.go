package feed

import (
	"encoding/json"
	"fmt"

	"github.com/rickgao/torobit-data/internal/model"
)

// Normalize parses one inbound feed message into canonical messages.
//
// Depth payloads expand to one DepthUpdate per price level; when the payload
// is a full snapshot (IsUpdate false), only the first emitted update carries
// the snapshot flag, so the receiving book clears exactly once per payload.
// A snapshot payload with no levels still emits a single zero-volume update
// so the clear is not lost.
//
// Symbols responses and unrecognized top-level keys return no messages and no
// error. Unparseable JSON or a recognized payload missing its symbol returns
// ErrMalformed; the caller skips the message and continues.
func Normalize(data []byte) ([]model.Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case env.MarketDepth != nil:
		return normalizeDepth(env.MarketDepth)
	case env.PublicTrade != nil:
		msg, err := normalizeTrade(env.PublicTrade)
		if err != nil {
			return nil, err
		}
		return []model.Message{msg}, nil
	case len(env.PublicTrades) > 0:
		msgs := make([]model.Message, 0, len(env.PublicTrades))
		for i := range env.PublicTrades {
			msg, err := normalizeTrade(&env.PublicTrades[i])
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		}
		return msgs, nil
	default:
		// Symbols directory or an unrecognized key: informational, ignored.
		return nil, nil
	}
}

func normalizeDepth(md *MarketDepthMsg) ([]model.Message, error) {
	if md.Symbol == "" {
		return nil, fmt.Errorf("%w: MarketDepth without Symbol", ErrMalformed)
	}

	snapshot := !md.IsUpdate
	msgs := make([]model.Message, 0, len(md.Bids)+len(md.Asks))

	appendSide := func(levels []PriceLevel, side model.Side) {
		for _, lvl := range levels {
			msgs = append(msgs, model.Message{Depth: &model.DepthUpdate{
				Symbol:   md.Symbol,
				Side:     side,
				Price:    model.FixedPointFromDecimal(lvl.Price),
				Volume:   model.FixedPointFromDecimal(lvl.Volume),
				Snapshot: snapshot && len(msgs) == 0,
			}})
		}
	}
	appendSide(md.Bids, model.SideBid)
	appendSide(md.Asks, model.SideAsk)

	if snapshot && len(msgs) == 0 {
		// Empty snapshot: the clear must still reach the book.
		msgs = append(msgs, model.Message{Depth: &model.DepthUpdate{
			Symbol:   md.Symbol,
			Side:     model.SideBid,
			Snapshot: true,
		}})
	}
	return msgs, nil
}

func normalizeTrade(pt *PublicTradeMsg) (model.Message, error) {
	if pt.Symbol == "" {
		return model.Message{}, fmt.Errorf("%w: trade without Symbol", ErrMalformed)
	}
	return model.Message{Trade: &model.Trade{
		Symbol:     pt.Symbol,
		ExchangeTS: pt.Timestamp,
		Price:      model.FixedPointFromDecimal(pt.Price),
		Volume:     model.FixedPointFromDecimal(pt.Volume),
		TradeID:    pt.TradeID,
	}}, nil
}
