package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rickgao/torobit-data/internal/model"
)

// sliceSource replays a fixed message slice, then a terminal error.
type sliceSource struct {
	msgs []model.Message
	err  error
}

func (s *sliceSource) Next() (model.Message, error) {
	if len(s.msgs) == 0 {
		if s.err != nil {
			return model.Message{}, s.err
		}
		return model.Message{}, io.EOF
	}
	msg := s.msgs[0]
	s.msgs = s.msgs[1:]
	return msg, nil
}

func depth(symbol string, side model.Side, price, volume model.FixedPoint, snapshot bool) model.Message {
	return model.Message{Depth: &model.DepthUpdate{
		Symbol: symbol, Side: side, Price: price, Volume: volume, Snapshot: snapshot,
	}}
}

func trade(symbol string, ts int64, price, volume model.FixedPoint) model.Message {
	return model.Message{Trade: &model.Trade{
		Symbol: symbol, ExchangeTS: ts, Price: price, Volume: volume,
	}}
}

func TestDriverRoutesBySymbol(t *testing.T) {
	d := New(nil)

	d.Apply(depth("A", model.SideBid, 100, 1, false))
	d.Apply(depth("B", model.SideBid, 200, 1, false))
	d.Apply(depth("B", model.SideAsk, 201, 1, false))
	d.Apply(trade("A", 1, 100, 1))

	if best, ok := d.BestBid("A"); !ok || best != 100 {
		t.Errorf("BestBid(A) = %v, %v, want 100, true", best, ok)
	}
	if best, ok := d.BestBid("B"); !ok || best != 200 {
		t.Errorf("BestBid(B) = %v, %v, want 200, true", best, ok)
	}
	if best, ok := d.BestAsk("B"); !ok || best != 201 {
		t.Errorf("BestAsk(B) = %v, %v, want 201, true", best, ok)
	}
	if n := d.TradeCount("A"); n != 1 {
		t.Errorf("TradeCount(A) = %d, want 1", n)
	}
	if n := d.TradeCount("B"); n != 0 {
		t.Errorf("TradeCount(B) = %d, want 0", n)
	}

	want := []string{"A", "B"}
	got := d.Symbols()
	if len(got) != len(want) {
		t.Fatalf("Symbols() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Symbols()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDriverSnapshotIsPerSymbol(t *testing.T) {
	d := New(nil)

	d.Apply(depth("A", model.SideBid, 100, 1, false))
	d.Apply(depth("B", model.SideBid, 200, 1, false))

	// Snapshot on B must not touch A.
	d.Apply(depth("B", model.SideBid, 210, 2, true))

	if best, ok := d.BestBid("A"); !ok || best != 100 {
		t.Errorf("BestBid(A) = %v, %v, want 100, true", best, ok)
	}
	if best, ok := d.BestBid("B"); !ok || best != 210 {
		t.Errorf("BestBid(B) = %v, %v, want 210, true", best, ok)
	}
	if bids, _ := d.Counts("B"); bids != 1 {
		t.Errorf("Counts(B) bids = %d, want 1", bids)
	}
}

func TestDriverLiveSnapshotScenario(t *testing.T) {
	// A book pre-populated with stale levels receives a full snapshot of
	// bid {10: 1} and ask {11: 2}; nothing else may survive.
	d := New(nil)
	d.Apply(depth("X", model.SideBid, 900000000000, 1, false))
	d.Apply(depth("X", model.SideAsk, 910000000000, 1, false))

	d.Apply(depth("X", model.SideBid, 1000000000, 100000000, true))
	d.Apply(depth("X", model.SideAsk, 1100000000, 200000000, false))

	bids, asks := d.Counts("X")
	if bids != 1 || asks != 1 {
		t.Fatalf("Counts(X) = %d, %d, want 1, 1", bids, asks)
	}
	if best, _ := d.BestBid("X"); best.String() != "10" {
		t.Errorf("BestBid(X) = %s, want 10", best)
	}
	if best, _ := d.BestAsk("X"); best.String() != "11" {
		t.Errorf("BestAsk(X) = %s, want 11", best)
	}
}

func TestDriverUnknownIsCountedNotApplied(t *testing.T) {
	d := New(nil)
	d.Apply(model.Message{Unknown: &model.UnknownFrame{WireType: 9, Length: 16}})

	stats := d.Stats()
	if stats.Applied != 1 || stats.Unknown != 1 {
		t.Errorf("Stats() = %+v, want Applied 1 Unknown 1", stats)
	}
	if syms := d.Symbols(); len(syms) != 0 {
		t.Errorf("Symbols() = %v, want none", syms)
	}
}

func TestDriverQueriesOnUnknownSymbol(t *testing.T) {
	d := New(nil)

	if _, ok := d.BestBid("nope"); ok {
		t.Error("BestBid on unknown symbol returned a value")
	}
	if _, ok := d.LastTrade("nope"); ok {
		t.Error("LastTrade on unknown symbol returned a value")
	}
	if bids, asks := d.Counts("nope"); bids != 0 || asks != 0 {
		t.Errorf("Counts = %d, %d, want 0, 0", bids, asks)
	}
}

func TestDriverRun(t *testing.T) {
	d := New(nil)
	src := &sliceSource{msgs: []model.Message{
		depth("X", model.SideBid, 100, 1, false),
		trade("X", 1, 100, 1),
	}}

	if err := d.Run(context.Background(), src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	stats := d.Stats()
	if stats.Applied != 2 || stats.DepthUpdates != 1 || stats.Trades != 1 {
		t.Errorf("Stats() = %+v, want 2 applied, 1 depth, 1 trade", stats)
	}
}

func TestDriverRunPropagatesStreamError(t *testing.T) {
	d := New(nil)
	streamErr := errors.New("boom")
	src := &sliceSource{
		msgs: []model.Message{depth("X", model.SideBid, 100, 1, false)},
		err:  streamErr,
	}

	if err := d.Run(context.Background(), src); !errors.Is(err, streamErr) {
		t.Errorf("Run = %v, want %v", err, streamErr)
	}
	// The message before the failure was still applied.
	if bids, _ := d.Counts("X"); bids != 1 {
		t.Errorf("Counts(X) bids = %d, want 1", bids)
	}
}

func TestDriverRunCancellation(t *testing.T) {
	d := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Run(ctx, &sliceSource{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
