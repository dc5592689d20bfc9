package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
)

// RGBA is one 8-bit, non-premultiplied pixel.
type RGBA struct {
	R, G, B, A uint8
}

// Buffer is an interleaved 8-bit RGBA raster. Pix holds Width*Height*4
// samples in row-major R,G,B,A order with no row padding.
//
// Engine operations never write to their input buffer; they always return a
// freshly allocated one.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a zeroed (fully transparent) buffer. Negative
// dimensions are treated as zero.
func NewBuffer(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
}

// NewBufferFrom wraps pix without copying after checking its length.
func NewBufferFrom(w, h int, pix []uint8) (*Buffer, error) {
	b := &Buffer{Width: w, Height: h, Pix: pix}
	if err := b.Valid(); err != nil {
		return nil, err
	}
	return b, nil
}

// Valid reports whether b is usable by the engine.
func (b *Buffer) Valid() error {
	if b == nil {
		return fmt.Errorf("nil buffer: %w", ErrInvalidBuffer)
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("negative size %dx%d: %w", b.Width, b.Height, ErrInvalidBuffer)
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("have %d samples, want %d for %dx%d: %w",
			len(b.Pix), b.Width*b.Height*4, b.Width, b.Height, ErrInvalidBuffer)
	}
	return nil
}

// Empty reports whether b has zero area.
func (b *Buffer) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

// In reports whether (x,y) addresses a pixel of b.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Offset returns the index of the R sample of (x,y). The caller must ensure
// the coordinate is in bounds.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the pixel at (x,y), or the zero (transparent) pixel when the
// coordinate is outside the buffer.
func (b *Buffer) At(x, y int) RGBA {
	if !b.In(x, y) {
		return RGBA{}
	}
	i := b.Offset(x, y)
	return RGBA{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// AtClamped returns the pixel at (x,y) with the coordinate clamped to the
// nearest edge. b must not be empty.
func (b *Buffer) AtClamped(x, y int) RGBA {
	x = clampInt(x, 0, b.Width-1)
	y = clampInt(y, 0, b.Height-1)
	i := b.Offset(x, y)
	return RGBA{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Set writes c at (x,y). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, c RGBA) {
	if !b.In(x, y) {
		return
	}
	i := b.Offset(x, y)
	b.Pix[i+0] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c RGBA) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i+0] = c.R
		b.Pix[i+1] = c.G
		b.Pix[i+2] = c.B
		b.Pix[i+3] = c.A
	}
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	out := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Equal reports whether b and o have the same size and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Width == o.Width && b.Height == o.Height && bytes.Equal(b.Pix, o.Pix)
}

// sameSize reports whether a and b share dimensions.
func sameSize(a, b *Buffer) bool {
	return a.Width == b.Width && a.Height == b.Height
}

// FromImage converts any image.Image into a Buffer, dropping the bounds
// origin. *image.NRGBA sources are copied row by row.
func FromImage(src image.Image) *Buffer {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewBuffer(w, h)
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			si := n.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*w*4:(y+1)*w*4], n.Pix[si:si+w*4])
		}
		return out
	}
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.Pix[idx+0] = c.R
			out.Pix[idx+1] = c.G
			out.Pix[idx+2] = c.B
			out.Pix[idx+3] = c.A
			idx += 4
		}
	}
	return out
}

// ToNRGBA copies b into a new *image.NRGBA anchored at the origin.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampRound rounds v to the nearest integer and clamps it to [0,255].
func clampRound(v float64) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// luminance returns Rec.709 luma in [0,255].
func luminance(r, g, b uint8) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}
