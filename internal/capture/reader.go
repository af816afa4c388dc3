package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Errors
var (
	ErrTruncated = errors.New("truncated stream")
	ErrCorrupt   = errors.New("corrupt stream")
)

// maxBlockLen bounds the uncompressed block length read from the file header,
// so a corrupt header cannot drive an arbitrarily large allocation.
const maxBlockLen = 64 << 20

// BlockReader reads length-prefixed LZ4 blocks from a capture file and hands
// out their decompressed contents one block at a time.
type BlockReader struct {
	r        io.Reader
	blockLen int    // fixed uncompressed length from the file header
	window   []byte // reused decompression buffer
	src      []byte // reused compressed-data buffer
}

// NewBlockReader reads the capture header from r and returns a reader
// positioned at the first block.
func NewBlockReader(r io.Reader) (*BlockReader, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("read capture header: %w", ErrTruncated)
	}
	blockLen := int(int32(binary.LittleEndian.Uint32(head[:])))
	if blockLen <= 0 || blockLen > maxBlockLen {
		return nil, fmt.Errorf("%w: uncompressed block length %d", ErrCorrupt, blockLen)
	}

	return &BlockReader{
		r:        r,
		blockLen: blockLen,
		window:   make([]byte, blockLen),
	}, nil
}

// BlockLen returns the fixed uncompressed block length declared by the file.
func (b *BlockReader) BlockLen() int {
	return b.blockLen
}

// Next reads and decompresses the next block, returning its contents. The
// returned slice is reused by the following call. io.EOF signals the normal
// end of the capture (end of file or a zero-length terminator); a short read
// inside a block is ErrTruncated and a bad block is a decompression error,
// both fatal for the stream.
func (b *BlockReader) Next() ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(b.r, head[:]); err != nil {
		// Fewer than 4 bytes left is the terminal condition, not corruption.
		return nil, io.EOF
	}
	clen := int(int32(binary.LittleEndian.Uint32(head[:])))
	if clen == 0 {
		return nil, io.EOF
	}
	if clen < 0 {
		return nil, fmt.Errorf("%w: compressed block length %d", ErrCorrupt, clen)
	}

	if cap(b.src) < clen {
		b.src = make([]byte, clen)
	}
	src := b.src[:clen]
	if _, err := io.ReadFull(b.r, src); err != nil {
		return nil, fmt.Errorf("read compressed block (%d bytes): %w", clen, ErrTruncated)
	}

	n, err := lz4.UncompressBlock(src, b.window)
	if err != nil {
		return nil, fmt.Errorf("decompress block: %w", err)
	}
	if n != b.blockLen {
		return nil, fmt.Errorf("%w: block decompressed to %d bytes, want %d", ErrCorrupt, n, b.blockLen)
	}

	return b.window, nil
}
