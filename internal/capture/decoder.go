package capture

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rickgao/torobit-data/internal/model"
)

// Frame type codes used by the capture format.
const (
	frameTypeDepth int16 = 0
	frameTypeTrade int16 = 1
)

// Record sizes. Every frame starts with int16 type, int16 length and an
// 8-byte field; depth and trade frames decode that field as the timestamp,
// unknown types leave it untouched.
const (
	frameHeaderLen = 12
	depthFrameLen  = 29 // type, length, ts, price, volume, flags
	tradeFrameLen  = 37 // type, length, ts, price, volume, trade id, flags
)

// Flag bits on depth frames.
const (
	flagBid      = 1 << 0
	flagSnapshot = 1 << 2
)

// Decoder is a pull iterator over the canonical messages of one capture file.
// The capture carries a single symbol, which the decoder stamps on every
// message. Not restartable once exhausted.
type Decoder struct {
	blocks *BlockReader
	symbol string
	window []byte
	offset int
}

// NewDecoder reads the capture header from r and returns a decoder that
// attributes all messages to symbol.
func NewDecoder(r io.Reader, symbol string) (*Decoder, error) {
	blocks, err := NewBlockReader(r)
	if err != nil {
		return nil, err
	}
	return &Decoder{blocks: blocks, symbol: symbol}, nil
}

// Next decodes one frame, pulling a new block when the current one is
// exhausted. Returns io.EOF at the normal end of the capture; any other error
// is fatal for the stream.
func (d *Decoder) Next() (model.Message, error) {
	if d.offset >= len(d.window) {
		window, err := d.blocks.Next()
		if err != nil {
			return model.Message{}, err
		}
		d.window = window
		d.offset = 0
	}

	rec := d.window[d.offset:]
	if len(rec) < frameHeaderLen {
		return model.Message{}, fmt.Errorf("%w: %d trailing bytes, want frame header of %d",
			ErrCorrupt, len(rec), frameHeaderLen)
	}

	frameType := int16(binary.LittleEndian.Uint16(rec[0:2]))
	frameLen := int16(binary.LittleEndian.Uint16(rec[2:4]))
	if frameLen <= 0 || int(frameLen) > len(rec) {
		return model.Message{}, fmt.Errorf("%w: frame length %d with %d bytes left in block",
			ErrCorrupt, frameLen, len(rec))
	}

	var msg model.Message
	switch frameType {
	case frameTypeDepth:
		if frameLen < depthFrameLen {
			return model.Message{}, fmt.Errorf("%w: depth frame length %d, want >= %d",
				ErrCorrupt, frameLen, depthFrameLen)
		}
		flags := rec[28]
		side := model.SideAsk
		if flags&flagBid != 0 {
			side = model.SideBid
		}
		msg.Depth = &model.DepthUpdate{
			Symbol:   d.symbol,
			Side:     side,
			Price:    model.FixedPoint(int64(binary.LittleEndian.Uint64(rec[12:20]))),
			Volume:   model.FixedPoint(int64(binary.LittleEndian.Uint64(rec[20:28]))),
			Snapshot: flags&flagSnapshot != 0,
		}
	case frameTypeTrade:
		if frameLen < tradeFrameLen {
			return model.Message{}, fmt.Errorf("%w: trade frame length %d, want >= %d",
				ErrCorrupt, frameLen, tradeFrameLen)
		}
		msg.Trade = &model.Trade{
			Symbol:     d.symbol,
			ExchangeTS: int64(binary.LittleEndian.Uint64(rec[4:12])),
			Price:      model.FixedPoint(int64(binary.LittleEndian.Uint64(rec[12:20]))),
			Volume:     model.FixedPoint(int64(binary.LittleEndian.Uint64(rec[20:28]))),
			TradeID:    int64(binary.LittleEndian.Uint64(rec[28:36])),
		}
	default:
		// The declared length is still trusted for skipping.
		msg.Unknown = &model.UnknownFrame{WireType: frameType, Length: frameLen}
	}

	d.offset += int(frameLen)
	return msg, nil
}
