package main

import (
	"image"
	"image/color"
)

// Channels is the fixed number of cells per pixel in a PixelBuffer.
const Channels = 3

// PixelBuffer is a height × width × 3 grid of 8-bit cells stored row-major,
// channel-minor. Cells within a pixel are ordered blue, green, red.
type PixelBuffer struct {
	Pix    []uint8
	Width  int
	Height int
}

func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Pix:    make([]uint8, width*height*Channels),
		Width:  width,
		Height: height,
	}
}

// Empty reports whether the buffer has no addressable cells or an
// inconsistent backing slice.
func (b *PixelBuffer) Empty() bool {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return true
	}
	return len(b.Pix) != b.Width*b.Height*Channels
}

func (b *PixelBuffer) offset(row, col, ch int) int {
	return (row*b.Width+col)*Channels + ch
}

func (b *PixelBuffer) At(row, col, ch int) uint8 {
	return b.Pix[b.offset(row, col, ch)]
}

func (b *PixelBuffer) Set(row, col, ch int, v uint8) {
	b.Pix[b.offset(row, col, ch)] = v
}

func (b *PixelBuffer) Clone() *PixelBuffer {
	c := &PixelBuffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// PixelBufferFromImage copies the colour components of src into a new buffer.
// Alpha is dropped; non-premultiplied values are kept as stored.
func PixelBufferFromImage(src image.Image) *PixelBuffer {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := NewPixelBuffer(w, h)

	switch img := src.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			start := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := img.Pix[start : start+w*4]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+4 : x*4+4]
				o := buf.offset(y, x, 0)
				buf.Pix[o+0] = p[2]
				buf.Pix[o+1] = p[1]
				buf.Pix[o+2] = p[0]
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				o := buf.offset(y, x, 0)
				buf.Pix[o+0] = c.B
				buf.Pix[o+1] = c.G
				buf.Pix[o+2] = c.R
			}
		}
	}
	return buf
}

// Image returns an opaque NRGBA image holding the buffer's cells.
func (b *PixelBuffer) Image() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			o := b.offset(y, x, 0)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = b.Pix[o+2]
			dst.Pix[i+1] = b.Pix[o+1]
			dst.Pix[i+2] = b.Pix[o+0]
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}
