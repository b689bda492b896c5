package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// The .pxz container stores a PixelBuffer verbatim:
// magic(4) + width(uint32) + height(uint32) + zstd(raw cells).
const magicPXZ = "PXZ1"

// maxPXZSide bounds each dimension so a hostile header cannot request an
// absurd allocation.
const maxPXZSide = 1 << 15

var (
	ErrInvalidMagic = errors.New("pxz: invalid magic")
	ErrBodyTooLarge = errors.New("pxz: decompressed body exceeds header dimensions")
)

func WriteHeader(w io.Writer, width, height int) error {
	if _, err := w.Write([]byte(magicPXZ)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(width)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(height)); err != nil {
		return err
	}
	return nil
}

func ReadHeader(r io.Reader) (width, height int, err error) {
	magic := make([]byte, len(magicPXZ))
	if _, err = io.ReadFull(r, magic); err != nil {
		return
	}
	if string(magic) != magicPXZ {
		return 0, 0, ErrInvalidMagic
	}

	var w32, h32 uint32
	if err = binary.Read(r, binary.BigEndian, &w32); err != nil {
		return
	}
	if err = binary.Read(r, binary.BigEndian, &h32); err != nil {
		return
	}
	if w32 == 0 || h32 == 0 || w32 > maxPXZSide || h32 > maxPXZSide {
		return 0, 0, fmt.Errorf("pxz: invalid dimensions %dx%d", w32, h32)
	}
	return int(w32), int(h32), nil
}

func EncodeZstd(w io.Writer, raw []byte) error {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	defer enc.Close()

	_, err = w.Write(enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)))
	return err
}

// DecodeZstd decompresses at most limit bytes. A stream that expands past
// limit is an error rather than a larger allocation.
func DecodeZstd(r io.Reader, limit int64) ([]byte, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	plain, err := io.ReadAll(io.LimitReader(dec, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(plain)) > limit {
		return nil, ErrBodyTooLarge
	}
	return plain, nil
}

// EncodePXZ writes buf as a .pxz container.
func EncodePXZ(w io.Writer, buf *PixelBuffer) error {
	if buf.Empty() {
		return ErrImageRead
	}
	bw := bufio.NewWriter(w)
	if err := WriteHeader(bw, buf.Width, buf.Height); err != nil {
		return err
	}
	if err := EncodeZstd(bw, buf.Pix); err != nil {
		return fmt.Errorf("zstd encode: %w", err)
	}
	return bw.Flush()
}

// DecodePXZ reads a .pxz container back into a PixelBuffer.
func DecodePXZ(data []byte) (*PixelBuffer, error) {
	r := bytes.NewReader(data)
	w, h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	want := w * h * Channels
	raw, err := DecodeZstd(r, int64(want))
	if errors.Is(err, ErrBodyTooLarge) {
		return nil, fmt.Errorf("pxz: body larger than %dx%d: %w", w, h, err)
	}
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if len(raw) != want {
		return nil, fmt.Errorf("pxz: truncated payload: got %d cells, want %d", len(raw), want)
	}
	return &PixelBuffer{Pix: raw, Width: w, Height: h}, nil
}
