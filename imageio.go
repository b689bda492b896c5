package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
)

// Format names a raster container the loader or writer understands.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatQOI  Format = "qoi"
	FormatPXZ  Format = "pxz"
)

var (
	ErrUnknownFormat = errors.New("unsupported image format")
	ErrLossyFormat   = errors.New("output format is lossy and would destroy the message")
)

// Lossless reports whether f keeps every channel value exactly.
func (f Format) Lossless() bool {
	switch f {
	case FormatPNG, FormatBMP, FormatQOI, FormatPXZ:
		return true
	}
	return false
}

// ParseFormat maps a name or file extension (with or without the dot) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	case "qoi":
		return FormatQOI, nil
	case "pxz":
		return FormatPXZ, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// SniffFormat detects the container from its leading magic bytes.
func SniffFormat(data []byte) (Format, error) {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG, nil
	case len(data) >= 3 && data[0] == 0xff && data[1] == 0xd8 && data[2] == 0xff:
		return FormatJPEG, nil
	case len(data) >= 3 && string(data[:3]) == "GIF":
		return FormatGIF, nil
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return FormatBMP, nil
	case len(data) >= 4 && string(data[:4]) == "qoif":
		return FormatQOI, nil
	case len(data) >= len(magicPXZ) && string(data[:len(magicPXZ)]) == magicPXZ:
		return FormatPXZ, nil
	}
	return "", ErrUnknownFormat
}

// DecodeImage turns encoded image bytes into a PixelBuffer.
func DecodeImage(data []byte) (*PixelBuffer, Format, error) {
	format, err := SniffFormat(data)
	if err != nil {
		return nil, "", err
	}

	var img image.Image
	r := bytes.NewReader(data)
	switch format {
	case FormatPXZ:
		buf, err := DecodePXZ(data)
		return buf, format, err
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	case FormatQOI:
		img, err = qoi.Decode(r)
	}
	if err != nil {
		return nil, format, err
	}
	return PixelBufferFromImage(img), format, nil
}

// EncodeImage writes buf to w in the given lossless format.
func EncodeImage(w io.Writer, buf *PixelBuffer, format Format) error {
	if !format.Lossless() {
		return fmt.Errorf("%w: %s", ErrLossyFormat, format)
	}
	if buf.Empty() {
		return ErrImageRead
	}
	switch format {
	case FormatPXZ:
		return EncodePXZ(w, buf)
	case FormatPNG:
		return png.Encode(w, buf.Image())
	case FormatBMP:
		return bmp.Encode(w, buf.Image())
	case FormatQOI:
		return qoi.Encode(w, buf.Image())
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// LoadImage reads the file at path into a PixelBuffer. Every failure wraps
// ErrImageRead.
func LoadImage(path string) (*PixelBuffer, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrImageRead, err)
	}
	buf, format, err := DecodeImage(data)
	if err != nil {
		return nil, format, fmt.Errorf("%w: %s: %w", ErrImageRead, filepath.Base(path), err)
	}
	if buf.Empty() {
		return nil, format, fmt.Errorf("%w: %s: empty image", ErrImageRead, filepath.Base(path))
	}
	return buf, format, nil
}

// OutputPath resolves the destination file and its format. A path without an
// extension gets the fallback format's extension appended.
func OutputPath(path string, fallback Format) (string, Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return path + "." + string(fallback), fallback, nil
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return "", "", err
	}
	if !format.Lossless() {
		return "", "", fmt.Errorf("%w: %s", ErrLossyFormat, format)
	}
	return path, format, nil
}

// SaveImage writes buf to path. The file is written to a temporary sibling
// first and renamed into place, so a failed save never leaves a half file.
func SaveImage(path string, buf *PixelBuffer, format Format) error {
	var b bytes.Buffer
	if err := EncodeImage(&b, buf, format); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
