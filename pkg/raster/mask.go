package raster

import (
	"fmt"
	"math"
)

// Mask holds one blend weight in [0,1] per pixel, row-major.
type Mask struct {
	Width   int
	Height  int
	Weights []float32
}

// NewMask returns an all-zero mask.
func NewMask(w, h int) *Mask {
	w, h = max(w, 0), max(h, 0)
	return &Mask{Width: w, Height: h, Weights: make([]float32, w*h)}
}

// UniformMask returns a mask filled with v clamped to [0,1].
func UniformMask(w, h int, v float32) *Mask {
	m := NewMask(w, h)
	v = float32(clamp01(float64(v)))
	for i := range m.Weights {
		m.Weights[i] = v
	}
	return m
}

// Valid reports whether the weight slice matches the dimensions.
func (m *Mask) Valid() error {
	if m == nil {
		return fmt.Errorf("nil mask: %w", ErrMaskMismatch)
	}
	if m.Width < 0 || m.Height < 0 || len(m.Weights) != m.Width*m.Height {
		return fmt.Errorf("mask %dx%d has %d weights: %w", m.Width, m.Height, len(m.Weights), ErrMaskMismatch)
	}
	return nil
}

// At returns the weight at (x,y), zero outside.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Weights[y*m.Width+x]
}

// Set stores a clamped weight; coordinates outside are ignored.
func (m *Mask) Set(x, y int, v float32) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Weights[y*m.Width+x] = float32(clamp01(float64(v)))
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	if m == nil {
		return nil
	}
	out := &Mask{Width: m.Width, Height: m.Height, Weights: make([]float32, len(m.Weights))}
	copy(out.Weights, m.Weights)
	return out
}

// Invert returns 1-w for every weight.
func (m *Mask) Invert() *Mask {
	out := m.Clone()
	for i, v := range out.Weights {
		out.Weights[i] = 1 - v
	}
	return out
}

// Feather softens the mask with a Gaussian of the given radius.
func (m *Mask) Feather(radius int) *Mask {
	if m.Valid() != nil {
		return m.Clone()
	}
	k := GaussianKernel(radius, 0)
	if k.Radius == 0 || len(m.Weights) == 0 {
		return m.Clone()
	}
	n := len(m.Weights)
	a, b := getPlane(n), getPlane(n)
	defer putPlane(a)
	defer putPlane(b)
	for i, v := range m.Weights {
		a[i] = float64(v)
	}
	pass1D(b, a, m.Width, m.Height, 1, k, true, EdgeClamp)
	pass1D(a, b, m.Width, m.Height, 1, k, false, EdgeClamp)
	out := NewMask(m.Width, m.Height)
	for i := range out.Weights {
		out.Weights[i] = float32(clamp01(a[i]))
	}
	return out
}

// BrushStroke is one circular dab in pixel coordinates. Weights reach
// Opacity inside Hardness*Radius and fall off smoothly to zero at Radius.
// Erase subtracts instead of adding.
type BrushStroke struct {
	X, Y     float64
	Radius   float64
	Hardness float64
	Opacity  float64
	Erase    bool
}

// BrushMask paints strokes in order onto an empty w x h mask.
func BrushMask(w, h int, strokes []BrushStroke) *Mask {
	m := NewMask(w, h)
	for _, s := range strokes {
		m.Paint(s)
	}
	return m
}

// Paint applies one stroke in place. Painting keeps the larger weight.
func (m *Mask) Paint(s BrushStroke) {
	if !finite(s.X) || !finite(s.Y) || !(s.Radius > 0) {
		return
	}
	hard := clampParam("brush.hardness", s.Hardness, 0, 1, 0.5)
	opacity := clampParam("brush.opacity", s.Opacity, 0, 1, 1)
	r := math.Min(s.Radius, float64(max(m.Width, m.Height))*2)
	inner := hard * r
	x0, x1 := clampInt(int(math.Floor(s.X-r)), 0, m.Width), clampInt(int(math.Ceil(s.X+r))+1, 0, m.Width)
	y0, y1 := clampInt(int(math.Floor(s.Y-r)), 0, m.Height), clampInt(int(math.Ceil(s.Y+r))+1, 0, m.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d := math.Hypot(float64(x)-s.X, float64(y)-s.Y)
			if d > r {
				continue
			}
			v := opacity
			if d > inner {
				t := (d - inner) / (r - inner)
				v *= 1 - t*t*(3-2*t)
			}
			i := y*m.Width + x
			if s.Erase {
				m.Weights[i] = float32(clamp01(float64(m.Weights[i]) - v))
			} else if float32(v) > m.Weights[i] {
				m.Weights[i] = float32(v)
			}
		}
	}
}

// SaturationMask selects pixels whose HSL saturation lies in [lo,hi],
// ramping linearly to zero over feather outside the band.
func SaturationMask(src *Buffer, lo, hi, feather float64) (*Mask, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	lo = clampParam("satmask.min", lo, 0, 1, 0)
	hi = clampParam("satmask.max", hi, 0, 1, 1)
	if hi < lo {
		lo, hi = hi, lo
	}
	feather = clampParam("satmask.feather", feather, 0, 1, 0)
	m := NewMask(src.Width, src.Height)
	for i := range m.Weights {
		j := i * 4
		s := saturation(src.Pix[j], src.Pix[j+1], src.Pix[j+2])
		var v float64
		switch {
		case s >= lo && s <= hi:
			v = 1
		case feather > 0 && s < lo:
			v = 1 - (lo-s)/feather
		case feather > 0 && s > hi:
			v = 1 - (s-hi)/feather
		}
		m.Weights[i] = float32(clamp01(v))
	}
	return m, nil
}
