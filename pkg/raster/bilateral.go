package raster

import "math"

// BilateralParams configures Bilateral. SigmaSpatial <= 0 defaults to
// Radius/2 and SigmaRange <= 0 defaults to 25 (in 8-bit units).
type BilateralParams struct {
	Radius       int
	SigmaSpatial float64
	SigmaRange   float64
}

// Bilateral smooths while preserving edges: each neighbour is weighted by
// a spatial Gaussian times a Gaussian of its colour distance to the centre
// pixel. Borders clamp; alpha is copied.
func Bilateral(src *Buffer, p BilateralParams) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	radius := clampIntParam("bilateral.radius", p.Radius, 0, 32)
	if radius == 0 || src.Empty() {
		return src.Clone(), nil
	}
	ss := p.SigmaSpatial
	if !(ss > 0) || !finite(ss) {
		ss = float64(radius) / 2
	}
	sr := p.SigmaRange
	if !(sr > 0) || !finite(sr) {
		sr = 25
	}
	ss = clampParam("bilateral.sigmaSpatial", ss, 0.5, 1e6, float64(radius)/2)
	sr = clampParam("bilateral.sigmaRange", sr, 0.5, 1e6, 25)

	side := 2*radius + 1
	spatial := make([]float64, side*side)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*side+dx+radius] = math.Exp(-d2 / (2 * ss * ss))
		}
	}
	// per-channel range weights; their product is the colour Gaussian
	var rangeW [256]float64
	for d := range rangeW {
		rangeW[d] = math.Exp(-float64(d*d) / (2 * sr * sr))
	}

	w, h := src.Width, src.Height
	dst := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ci := src.Offset(x, y)
			cr, cg, cb := int(src.Pix[ci]), int(src.Pix[ci+1]), int(src.Pix[ci+2])
			var sum [3]float64
			wsum := 0.0
			for dy := -radius; dy <= radius; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				for dx := -radius; dx <= radius; dx++ {
					sx := clampInt(x+dx, 0, w-1)
					i := src.Offset(sx, sy)
					r, g, b := int(src.Pix[i]), int(src.Pix[i+1]), int(src.Pix[i+2])
					wt := spatial[(dy+radius)*side+dx+radius] *
						rangeW[absInt(r-cr)] * rangeW[absInt(g-cg)] * rangeW[absInt(b-cb)]
					sum[0] += wt * float64(r)
					sum[1] += wt * float64(g)
					sum[2] += wt * float64(b)
					wsum += wt
				}
			}
			// the centre tap always has weight 1, so wsum > 0
			dst.Pix[ci+0] = clampRound(sum[0] / wsum)
			dst.Pix[ci+1] = clampRound(sum[1] / wsum)
			dst.Pix[ci+2] = clampRound(sum[2] / wsum)
			dst.Pix[ci+3] = src.Pix[ci+3]
		}
	}
	return dst, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
