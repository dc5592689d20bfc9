package raster

import "math"

// EdgePolicy selects what a sample outside the buffer reads as.
type EdgePolicy uint8

const (
	// EdgeClamp reuses the nearest in-bounds pixel.
	EdgeClamp EdgePolicy = iota
	// EdgeTransparent reads outside pixels as transparent black.
	EdgeTransparent
)

func (e EdgePolicy) String() string {
	switch e {
	case EdgeClamp:
		return "clamp"
	case EdgeTransparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// ParseEdgePolicy accepts "clamp" or "transparent" (case-insensitive).
func ParseEdgePolicy(s string) (EdgePolicy, bool) {
	switch stringUpper(s) {
	case "CLAMP", "":
		return EdgeClamp, true
	case "TRANSPARENT", "NONE":
		return EdgeTransparent, true
	}
	return EdgeClamp, false
}

// texel reads one pixel under the edge policy.
func texel(src *Buffer, x, y int, edge EdgePolicy) (r, g, b, a float64) {
	if !src.In(x, y) {
		if edge == EdgeTransparent {
			return 0, 0, 0, 0
		}
		x = clampInt(x, 0, src.Width-1)
		y = clampInt(y, 0, src.Height-1)
	}
	i := src.Offset(x, y)
	return float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2]), float64(src.Pix[i+3])
}

// SampleF samples src at the fractional pixel-centre coordinate (x,y) using
// bilinear interpolation over the four neighbours. Integer coordinates
// return the exact stored pixel. The result is unrounded, in [0,255].
//
// Empty buffers and non-finite coordinates sample as transparent black.
func SampleF(src *Buffer, x, y float64, edge EdgePolicy) [4]float64 {
	var out [4]float64
	if src.Empty() || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return out
	}
	fx := math.Floor(x)
	fy := math.Floor(y)
	x0 := int(fx)
	y0 := int(fy)
	xFrac := x - fx
	yFrac := y - fy

	r00, g00, b00, a00 := texel(src, x0, y0, edge)
	if xFrac == 0 && yFrac == 0 {
		return [4]float64{r00, g00, b00, a00}
	}
	r10, g10, b10, a10 := texel(src, x0+1, y0, edge)
	r01, g01, b01, a01 := texel(src, x0, y0+1, edge)
	r11, g11, b11, a11 := texel(src, x0+1, y0+1, edge)

	// interpolate horizontally then vertically
	r0 := r00*(1-xFrac) + r10*xFrac
	r1 := r01*(1-xFrac) + r11*xFrac
	g0 := g00*(1-xFrac) + g10*xFrac
	g1 := g01*(1-xFrac) + g11*xFrac
	b0 := b00*(1-xFrac) + b10*xFrac
	b1 := b01*(1-xFrac) + b11*xFrac
	a0 := a00*(1-xFrac) + a10*xFrac
	a1 := a01*(1-xFrac) + a11*xFrac

	out[0] = r0*(1-yFrac) + r1*yFrac
	out[1] = g0*(1-yFrac) + g1*yFrac
	out[2] = b0*(1-yFrac) + b1*yFrac
	out[3] = a0*(1-yFrac) + a1*yFrac
	return out
}

// Sample is SampleF rounded to 8-bit channels.
func Sample(src *Buffer, x, y float64, edge EdgePolicy) RGBA {
	v := SampleF(src, x, y, edge)
	return RGBA{clampRound(v[0]), clampRound(v[1]), clampRound(v[2]), clampRound(v[3])}
}

// SampleNearest returns the pixel whose centre is closest to (x,y).
func SampleNearest(src *Buffer, x, y float64, edge EdgePolicy) RGBA {
	if src.Empty() || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return RGBA{}
	}
	r, g, b, a := texel(src, int(math.Floor(x+0.5)), int(math.Floor(y+0.5)), edge)
	return RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}
}

// stringUpper returns uppercase ASCII of s (fast path)
func stringUpper(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
