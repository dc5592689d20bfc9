package raster

import "math"

// UnsharpParams configures UnsharpMask.
type UnsharpParams struct {
	Radius int
	Sigma  float64
	// Amount scales the detail added back. Zero is the identity.
	Amount float64
	// Threshold in [0,255]: pixels whose detail is below it on every
	// channel are left untouched.
	Threshold float64
}

// UnsharpMask sharpens by adding back src minus its Gaussian blur.
func UnsharpMask(src *Buffer, p UnsharpParams) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	amount := clampParam("unsharp.amount", p.Amount, 0, 10, 0)
	if amount == 0 || p.Radius <= 0 {
		return src.Clone(), nil
	}
	threshold := clampParam("unsharp.threshold", p.Threshold, 0, 255, 0)
	blurred, err := GaussianBlur(src, GaussianParams{Radius: p.Radius, Sigma: p.Sigma})
	if err != nil {
		return nil, err
	}
	dst := NewBuffer(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 4 {
		var detail [3]float64
		small := threshold > 0
		for c := 0; c < 3; c++ {
			detail[c] = float64(src.Pix[i+c]) - float64(blurred.Pix[i+c])
			if math.Abs(detail[c]) >= threshold {
				small = false
			}
		}
		if small {
			copy(dst.Pix[i:i+4], src.Pix[i:i+4])
			continue
		}
		for c := 0; c < 3; c++ {
			dst.Pix[i+c] = clampRound(float64(src.Pix[i+c]) + amount*detail[c])
		}
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst, nil
}

// Sharpen is UnsharpMask with amount 1 and no threshold.
func Sharpen(src *Buffer, radius int) (*Buffer, error) {
	return UnsharpMask(src, UnsharpParams{Radius: radius, Amount: 1})
}
