package raster

import "math"

// DefaultMedianThreshold is the deviation at which the adaptive median
// fully replaces a pixel.
const DefaultMedianThreshold = 32.0

// MedianParams configures MedianFilter.
type MedianParams struct {
	Radius int
	// Adaptive blends the median in proportion to how far the pixel
	// already deviates from it, which keeps fine texture intact.
	Adaptive bool
	// Threshold is the full-replacement deviation for Adaptive.
	// Zero means DefaultMedianThreshold.
	Threshold float64
}

// MedianFilter replaces each colour channel by the median of its (2r+1)²
// neighbourhood, with border reads clamped so every window has the same
// count. Alpha is copied unchanged.
//
// Each row keeps one 256-bin histogram per channel and slides it one
// column at a time.
func MedianFilter(src *Buffer, p MedianParams) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	radius := clampIntParam("median.radius", p.Radius, 0, 64)
	if radius == 0 || src.Empty() {
		return src.Clone(), nil
	}
	threshold := p.Threshold
	if !(threshold > 0) || !finite(threshold) {
		threshold = DefaultMedianThreshold
	}

	w, h := src.Width, src.Height
	side := 2*radius + 1
	half := (side*side + 1) / 2
	dst := NewBuffer(w, h)
	var hist [3][256]int

	addColumn := func(x, y, delta int) {
		sx := clampInt(x, 0, w-1)
		for dy := -radius; dy <= radius; dy++ {
			i := src.Offset(sx, clampInt(y+dy, 0, h-1))
			hist[0][src.Pix[i+0]] += delta
			hist[1][src.Pix[i+1]] += delta
			hist[2][src.Pix[i+2]] += delta
		}
	}

	for y := 0; y < h; y++ {
		hist = [3][256]int{}
		for dx := -radius; dx <= radius; dx++ {
			addColumn(dx, y, 1)
		}
		for x := 0; x < w; x++ {
			if x > 0 {
				addColumn(x-radius-1, y, -1)
				addColumn(x+radius, y, 1)
			}
			i := dst.Offset(x, y)
			var med [3]float64
			dev := 0.0
			for c := 0; c < 3; c++ {
				med[c] = float64(histMedian(&hist[c], half))
				dev = math.Max(dev, math.Abs(float64(src.Pix[i+c])-med[c]))
			}
			if !p.Adaptive {
				dst.Pix[i+0] = uint8(med[0])
				dst.Pix[i+1] = uint8(med[1])
				dst.Pix[i+2] = uint8(med[2])
			} else {
				wt := math.Min(1, dev/threshold)
				for c := 0; c < 3; c++ {
					s := float64(src.Pix[i+c])
					dst.Pix[i+c] = clampRound(s + wt*(med[c]-s))
				}
			}
			dst.Pix[i+3] = src.Pix[i+3]
		}
	}
	return dst, nil
}

// histMedian returns the smallest value whose cumulative count reaches half.
func histMedian(hist *[256]int, half int) int {
	sum := 0
	for v := 0; v < 256; v++ {
		sum += hist[v]
		if sum >= half {
			return v
		}
	}
	return 255
}

// Despeckle is a radius-1 median filter.
func Despeckle(src *Buffer) (*Buffer, error) {
	return MedianFilter(src, MedianParams{Radius: 1})
}
