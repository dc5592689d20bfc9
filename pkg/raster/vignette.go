package raster

import "math"

// RadialMask is 0 at center and rises along a Gaussian profile to 1 at
// radius pixels, staying 1 beyond. radius <= 0 means half the image
// diagonal; sigma <= 0 means radius/3.
func RadialMask(w, h int, center Point, radius, sigma float64) *Mask {
	m := NewMask(w, h)
	if w == 0 || h == 0 {
		return m
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		radius = halfDiagonal(w, h)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		sigma = radius / 3
	}
	sigma = clampParam("vignette.sigma", sigma, minSigma, 1e6, radius/3)
	cx, cy := centerPx(center, w, h)
	inv := -0.5 / (sigma * sigma)
	norm := 1 - math.Exp(inv*radius*radius)
	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			v := 1 - math.Exp(inv*(dx*dx+dy*dy))
			if norm > 0 {
				v /= norm
			}
			m.Weights[y*w+x] = float32(clamp01(v))
		}
	}
	return m
}

// VignetteParams darkens toward the corners.
type VignetteParams struct {
	Center   Point
	Radius   float64 // full darkening distance in pixels; <= 0 is half the diagonal
	Sigma    float64 // falloff; <= 0 is Radius/3
	Strength float64 // [0,1]
}

// Vignette scales colour by 1 - Strength*RadialMask. Alpha is kept.
func Vignette(src *Buffer, p VignetteParams) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	strength := clampParam("vignette.strength", p.Strength, 0, 1, 0)
	if strength == 0 || src.Empty() {
		return src.Clone(), nil
	}
	m := RadialMask(src.Width, src.Height, p.Center, p.Radius, p.Sigma)
	dst := NewBuffer(src.Width, src.Height)
	for i, wt := range m.Weights {
		j := i * 4
		f := 1 - strength*float64(wt)
		dst.Pix[j+0] = clampRound(float64(src.Pix[j+0]) * f)
		dst.Pix[j+1] = clampRound(float64(src.Pix[j+1]) * f)
		dst.Pix[j+2] = clampRound(float64(src.Pix[j+2]) * f)
		dst.Pix[j+3] = src.Pix[j+3]
	}
	return dst, nil
}
