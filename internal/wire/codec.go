// Package wire implements the binary protocol shared with the execution
// engine: transaction frames, per-game move payloads, and per-game state
// blobs. Every layout here is a stable contract; field order and width must
// never change without a version bump. All multi-byte integers are
// big-endian and all amounts are unsigned 64-bit.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortBlob reports a blob shorter than the minimum its format requires.
// The dispatcher drops such updates without touching canonical state.
var ErrShortBlob = errors.New("blob truncated")

// Action discriminants. Every move payload starts with one.
const (
	ActionBet     byte = 0 // place a bet or make a move
	ActionTrigger byte = 1 // deal, spin, confirm
	ActionClear   byte = 2 // clear the bet list; roll, for craps
)

// cursor walks a blob with bounds checking. Reads past the end return
// ErrShortBlob wrapped with the caller's context.
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) u8() (byte, error) {
	if c.remaining() < 1 {
		return 0, ErrShortBlob
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

func (c *cursor) u64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, ErrShortBlob
	}
	v := binary.BigEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

func (c *cursor) i64() (int64, error) {
	v, err := c.u64()
	return int64(v), err
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, ErrShortBlob
	}
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v, nil
}

func appendU64(dst []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(dst, v)
}

func appendI64(dst []byte, v int64) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(v))
}

// shortErr wraps ErrShortBlob with the decoder's context when err is a
// truncation, and passes through every other error unchanged.
func shortErr(game string, err error) error {
	if errors.Is(err, ErrShortBlob) {
		return fmt.Errorf("%s: %w", game, ErrShortBlob)
	}
	return err
}
