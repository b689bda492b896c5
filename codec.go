// Package main implements pixsteg, which stores a short text message directly
// in the channel values of a raster image and reads it back.
//
// Layout of an encoded buffer: cell [0][0][0] holds the message length,
// message units follow one per channel starting at pixel [1][0] channel 0,
// advancing channel first, then column, then row.
//
// Units overwrite whole channel values. The result is visible to anyone who
// looks at the pixels and offers no concealment or secrecy.
package main

import "fmt"

// maxUnit is the largest value a payload unit or the length cell may hold.
const maxUnit = 254

// CharToInt maps a payload character to the value stored in a channel.
func CharToInt(r rune) (uint8, bool) {
	if r < 0 || r > maxUnit {
		return 0, false
	}
	return uint8(r), true
}

// IntToChar is the inverse of CharToInt.
func IntToChar(v uint8) (rune, bool) {
	if v > maxUnit {
		return 0, false
	}
	return rune(v), true
}

// MaxCapacity is floor(height*width*3/8) - 1. The /8 factor is inherited from
// bit-packing schemes and is kept as is; it is not the true cell count.
func MaxCapacity(buf *PixelBuffer) int {
	if buf.Empty() {
		return 0
	}
	return buf.Height*buf.Width*Channels/8 - 1
}

// MaxAllowed is the longest payload Encode accepts for buf. It is the
// capacity bound further limited by the single-cell length field.
func MaxAllowed(buf *PixelBuffer) int {
	n := MaxCapacity(buf)
	if n > maxUnit {
		n = maxUnit
	}
	if n < 0 {
		n = 0
	}
	return n
}

type cursor struct {
	row, col, ch int
}

func newCursor() cursor {
	return cursor{row: 1}
}

func (c *cursor) inside(buf *PixelBuffer) bool {
	return c.row < buf.Height && c.col < buf.Width
}

func (c *cursor) advance(width int) {
	c.ch++
	if c.ch == Channels {
		c.ch = 0
		c.col++
	}
	if c.col == width {
		c.col = 0
		c.row++
	}
}

// Encode writes payload into buf in place. On any error returned after the
// capacity check buf is partially written and must be discarded.
func Encode(buf *PixelBuffer, payload string) error {
	if buf.Empty() {
		return ErrImageRead
	}

	units := []rune(payload)
	if limit := MaxAllowed(buf); len(units) > limit {
		return &CapacityError{Length: len(units), MaxAllowed: limit}
	}

	buf.Set(0, 0, 0, uint8(len(units)))

	c := newCursor()
	for i, r := range units {
		if !c.inside(buf) {
			return ErrBufferExhausted
		}
		v, ok := CharToInt(r)
		if !ok {
			return &UnsupportedCharacterError{Rune: r, Index: i}
		}
		buf.Set(c.row, c.col, c.ch, v)
		c.advance(buf.Width)
	}
	return nil
}

// Decode reads the message stored by Encode. buf is not modified.
func Decode(buf *PixelBuffer) (string, error) {
	if buf.Empty() {
		return "", ErrImageRead
	}

	length := buf.At(0, 0, 0)
	if length > maxUnit {
		return "", &CorruptedPayloadError{Reason: "length cell holds 255"}
	}

	out := make([]rune, 0, length)
	c := newCursor()
	for i := 0; i < int(length); i++ {
		if !c.inside(buf) {
			return "", &CorruptedPayloadError{Reason: "declared length runs past the end of the image"}
		}
		r, ok := IntToChar(buf.At(c.row, c.col, c.ch))
		if !ok {
			return "", &CorruptedPayloadError{Reason: fmt.Sprintf("channel value 255 at row %d column %d", c.row, c.col)}
		}
		out = append(out, r)
		c.advance(buf.Width)
	}
	return string(out), nil
}
