package raster

import "math"

// color conversion helpers: sRGB -> linear -> XYZ -> Lab
func srgbToLinear(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func labOf(r, g, b uint8) [3]float64 {
	lr, lg, lb := srgbToLinear(r), srgbToLinear(g), srgbToLinear(b)
	// sRGB D65
	x := (0.4124564*lr + 0.3575761*lg + 0.1804375*lb) / 0.95047
	y := 0.2126729*lr + 0.7151522*lg + 0.0721750*lb
	z := (0.0193339*lr + 0.1191920*lg + 0.9503041*lb) / 1.08883
	f := func(t float64) float64 {
		if t > 0.008856 {
			return math.Cbrt(t)
		}
		return 7.787037*t + 16.0/116.0
	}
	fx, fy, fz := f(x), f(y), f(z)
	return [3]float64{116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)}
}

func labDistanceSq(a, b [3]float64) float64 {
	dl, da, db := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dl*dl + da*da + db*db
}

// FloodParams configures FloodMask. Fuzz is a Lab delta-E tolerance in
// [0,200]. Global selects every matching pixel instead of only the region
// 8-connected to the seed.
type FloodParams struct {
	X, Y   int
	Fuzz   float64
	Global bool
	Invert bool
}

// FloodMask selects the pixels perceptually close to the seed colour.
// The seed is clamped into the buffer.
func FloodMask(src *Buffer, p FloodParams) (*Mask, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	w, h := src.Width, src.Height
	m := NewMask(w, h)
	if src.Empty() {
		return m, nil
	}
	sx, sy := clampInt(p.X, 0, w-1), clampInt(p.Y, 0, h-1)
	fuzz := clampParam("flood.fuzz", p.Fuzz, 0, 200, 0)
	fuzzSq := fuzz * fuzz
	seed := src.At(sx, sy)
	seedLab := labOf(seed.R, seed.G, seed.B)

	// 0 unknown, 1 match, 2 no match
	state := make([]uint8, w*h)
	matches := func(x, y int) bool {
		i := y*w + x
		if state[i] == 0 {
			c := src.Pix[i*4 : i*4+3]
			state[i] = 2
			if labDistanceSq(labOf(c[0], c[1], c[2]), seedLab) <= fuzzSq {
				state[i] = 1
			}
		}
		return state[i] == 1
	}

	if p.Global {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if matches(x, y) {
					m.Weights[y*w+x] = 1
				}
			}
		}
	} else {
		// scanline span fill with 8-way connectivity
		type span struct{ x, y int }
		stack := []span{{sx, sy}}
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if m.Weights[s.y*w+s.x] == 1 || !matches(s.x, s.y) {
				continue
			}
			xl, xr := s.x, s.x
			for xl > 0 && m.Weights[s.y*w+xl-1] == 0 && matches(xl-1, s.y) {
				xl--
			}
			for xr < w-1 && m.Weights[s.y*w+xr+1] == 0 && matches(xr+1, s.y) {
				xr++
			}
			for x := xl; x <= xr; x++ {
				m.Weights[s.y*w+x] = 1
			}
			for _, ay := range [2]int{s.y - 1, s.y + 1} {
				if ay < 0 || ay >= h {
					continue
				}
				inRun := false
				for x := max(xl-1, 0); x <= min(xr+1, w-1); x++ {
					ok := m.Weights[ay*w+x] == 0 && matches(x, ay)
					if ok && !inRun {
						stack = append(stack, span{x, ay})
					}
					inRun = ok
				}
			}
		}
	}
	if p.Invert {
		return m.Invert(), nil
	}
	return m, nil
}
