package raster

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGB<->HSL conversions operate on 0..1 floats.

func rgbToHsl(r, g, b float64) (h, s, l float64) {
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}
	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hueToRgb(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func hslToRgb(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	return hueToRgb(p, q, h+1.0/3), hueToRgb(p, q, h), hueToRgb(p, q, h-1.0/3)
}

// saturation returns the HSL saturation of a pixel in [0,1].
func saturation(r, g, b uint8) float64 {
	_, s, _ := rgbToHsl(float64(r)/255, float64(g)/255, float64(b)/255)
	return s
}

// ModulateParams scales lightness and saturation in percent (100 keeps
// them) and rotates hue by degrees.
type ModulateParams struct {
	Brightness float64
	Saturation float64
	Hue        float64
}

// Modulate adjusts src in HSL space. Alpha is kept.
func Modulate(src *Buffer, p ModulateParams) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	bf := clampParam("modulate.brightness", p.Brightness, 0, 1000, 100) / 100
	sf := clampParam("modulate.saturation", p.Saturation, 0, 1000, 100) / 100
	hue := p.Hue
	if !finite(hue) {
		hue = 0
	}
	if bf == 1 && sf == 1 && math.Mod(hue, 360) == 0 {
		return src.Clone(), nil
	}
	shift := math.Mod(hue/360, 1)
	dst := NewBuffer(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 4 {
		h, s, l := rgbToHsl(float64(src.Pix[i])/255, float64(src.Pix[i+1])/255, float64(src.Pix[i+2])/255)
		h = math.Mod(h+shift+1, 1)
		r, g, b := hslToRgb(h, clamp01(s*sf), clamp01(l*bf))
		dst.Pix[i+0] = clampRound(r * 255)
		dst.Pix[i+1] = clampRound(g * 255)
		dst.Pix[i+2] = clampRound(b * 255)
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst, nil
}

// ParseColor accepts SVG colour names and #rgb, #rgba, #rrggbb or
// #rrggbbaa hex forms.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBA{}, fmt.Errorf("empty color")
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGBA{c.R, c.G, c.B, c.A}, nil
	}
	if s[0] != '#' {
		return RGBA{}, fmt.Errorf("unsupported color format: %s", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		long := make([]byte, 0, 8)
		for i := 0; i < len(hex); i++ {
			long = append(long, hex[i], hex[i])
		}
		hex = string(long)
	case 6, 8:
	default:
		return RGBA{}, fmt.Errorf("unsupported hex color length: %d", len(hex))
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
