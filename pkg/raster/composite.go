package raster

import (
	"fmt"
	"math"
	"strings"
)

// BlendMode combines a base and an overlay channel value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendScreen
	BlendLighten
	BlendDarken
	BlendAdd
	BlendMultiply
	BlendOverlay
	BlendDifference
)

var blendNames = [...]string{
	BlendNormal:     "normal",
	BlendScreen:     "screen",
	BlendLighten:    "lighten",
	BlendDarken:     "darken",
	BlendAdd:        "add",
	BlendMultiply:   "multiply",
	BlendOverlay:    "overlay",
	BlendDifference: "difference",
}

func (m BlendMode) String() string {
	if int(m) < len(blendNames) {
		return blendNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", uint8(m))
}

// ParseBlendMode accepts the names produced by String; "over" is an alias
// of normal.
func ParseBlendMode(s string) (BlendMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "over":
		return BlendNormal, true
	}
	for i, n := range blendNames {
		if n == s {
			return BlendMode(i), true
		}
	}
	return BlendNormal, false
}

// Channel formulas on 0..1 values; a is base, b is overlay.
func blendScreen(a, b float64) float64   { return 1 - (1-a)*(1-b) }
func blendMultiply(a, b float64) float64 { return a * b }
func blendAdd(a, b float64) float64      { return math.Min(1, a+b) }
func blendOverlay(a, b float64) float64 {
	if a < 0.5 {
		return 2 * a * b
	}
	return 1 - 2*(1-a)*(1-b)
}

func (m BlendMode) fn() func(a, b float64) float64 {
	switch m {
	case BlendScreen:
		return blendScreen
	case BlendLighten:
		return math.Max
	case BlendDarken:
		return math.Min
	case BlendAdd:
		return blendAdd
	case BlendMultiply:
		return blendMultiply
	case BlendOverlay:
		return blendOverlay
	case BlendDifference:
		return func(a, b float64) float64 { return math.Abs(a - b) }
	}
	return func(_, b float64) float64 { return b }
}

// Blend mixes overlay onto base with a scalar weight in [0,1]: each colour
// channel becomes base + weight*(mode(base,overlay) - base) and alpha is
// interpolated linearly. Weight 0 returns base unchanged.
func Blend(base, overlay *Buffer, weight float64, mode BlendMode) (*Buffer, error) {
	if err := checkPair(base, overlay); err != nil {
		return nil, err
	}
	weight = clampParam("blend.weight", weight, 0, 1, 0)
	if weight == 0 {
		return base.Clone(), nil
	}
	dst := NewBuffer(base.Width, base.Height)
	f := mode.fn()
	for i := 0; i < len(dst.Pix); i += 4 {
		blendPixel(dst.Pix[i:i+4], base.Pix[i:i+4], overlay.Pix[i:i+4], weight, f)
	}
	return dst, nil
}

// BlendMask is Blend with a per-pixel weight taken from mask.
func BlendMask(base, overlay *Buffer, mask *Mask, mode BlendMode) (*Buffer, error) {
	if err := checkPair(base, overlay); err != nil {
		return nil, err
	}
	if err := mask.Valid(); err != nil {
		return nil, err
	}
	if mask.Width != base.Width || mask.Height != base.Height {
		return nil, fmt.Errorf("mask %dx%d, image %dx%d: %w",
			mask.Width, mask.Height, base.Width, base.Height, ErrMaskMismatch)
	}
	dst := NewBuffer(base.Width, base.Height)
	f := mode.fn()
	for p, wt := range mask.Weights {
		i := p * 4
		w := clamp01(float64(wt))
		if w == 0 {
			copy(dst.Pix[i:i+4], base.Pix[i:i+4])
			continue
		}
		blendPixel(dst.Pix[i:i+4], base.Pix[i:i+4], overlay.Pix[i:i+4], w, f)
	}
	return dst, nil
}

func blendPixel(dst, a, b []uint8, w float64, f func(a, b float64) float64) {
	for c := 0; c < 3; c++ {
		av := float64(a[c]) / 255
		mixed := f(av, float64(b[c])/255)
		dst[c] = clampRound((av + w*(mixed-av)) * 255)
	}
	dst[3] = clampRound(float64(a[3]) + w*(float64(b[3])-float64(a[3])))
}

func checkPair(base, overlay *Buffer) error {
	if err := base.Valid(); err != nil {
		return fmt.Errorf("base: %w", err)
	}
	if err := overlay.Valid(); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	if !sameSize(base, overlay) {
		return fmt.Errorf("base %dx%d, overlay %dx%d: %w",
			base.Width, base.Height, overlay.Width, overlay.Height, ErrSizeMismatch)
	}
	return nil
}
