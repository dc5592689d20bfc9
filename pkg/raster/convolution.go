package raster

import "math"

// ConvolveOptions controls border handling and output offset of the linear
// convolutions.
type ConvolveOptions struct {
	// Edge selects how taps outside the image read. The zero value clamps.
	Edge EdgePolicy
	// Bias is added to every colour channel before rounding.
	Bias float64
	// PreserveAlpha copies the source alpha instead of filtering it.
	PreserveAlpha bool
}

// pass1D correlates k along one axis of an nch-channel plane. Reads outside
// the plane clamp to the nearest row or column, or contribute nothing under
// EdgeTransparent.
func pass1D(dst, src []float64, w, h, nch int, k Kernel1D, horizontal bool, edge EdgePolicy) {
	r := k.Radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := (y*w + x) * nch
			for c := 0; c < nch; c++ {
				dst[o+c] = 0
			}
			for t := -r; t <= r; t++ {
				sx, sy := x, y
				if horizontal {
					sx += t
				} else {
					sy += t
				}
				if sx < 0 || sy < 0 || sx >= w || sy >= h {
					if edge == EdgeTransparent {
						continue
					}
					sx = clampInt(sx, 0, w-1)
					sy = clampInt(sy, 0, h-1)
				}
				wt := k.Weights[t+r]
				if wt == 0 {
					continue
				}
				i := (sy*w + sx) * nch
				for c := 0; c < nch; c++ {
					dst[o+c] += src[i+c] * wt
				}
			}
		}
	}
}

// pass2D correlates a square kernel over an nch-channel plane.
func pass2D(dst, src []float64, w, h, nch int, k Kernel2D, edge EdgePolicy) {
	r := k.Radius()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := (y*w + x) * nch
			for c := 0; c < nch; c++ {
				dst[o+c] = 0
			}
			for ky := -r; ky <= r; ky++ {
				for kx := -r; kx <= r; kx++ {
					wt := k.Weights[(ky+r)*k.Size+kx+r]
					if wt == 0 {
						continue
					}
					sx, sy := x+kx, y+ky
					if sx < 0 || sy < 0 || sx >= w || sy >= h {
						if edge == EdgeTransparent {
							continue
						}
						sx = clampInt(sx, 0, w-1)
						sy = clampInt(sy, 0, h-1)
					}
					i := (sy*w + sx) * nch
					for c := 0; c < nch; c++ {
						dst[o+c] += src[i+c] * wt
					}
				}
			}
		}
	}
}

// planeToBuffer rounds a 4-channel plane into a new buffer.
func planeToBuffer(p []float64, src *Buffer, opts ConvolveOptions) *Buffer {
	dst := NewBuffer(src.Width, src.Height)
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i+0] = clampRound(p[i+0] + opts.Bias)
		dst.Pix[i+1] = clampRound(p[i+1] + opts.Bias)
		dst.Pix[i+2] = clampRound(p[i+2] + opts.Bias)
		if opts.PreserveAlpha {
			dst.Pix[i+3] = src.Pix[i+3]
		} else {
			dst.Pix[i+3] = clampRound(p[i+3])
		}
	}
	return dst
}

// ConvolveSeparable runs a horizontal pass with horiz followed by a
// vertical pass with vert. Intermediates stay in floating point.
func ConvolveSeparable(src *Buffer, horiz, vert Kernel1D, opts ConvolveOptions) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	if src.Empty() {
		return src.Clone(), nil
	}
	w, h := src.Width, src.Height
	in := toPlane(src)
	tmp := getPlane(len(in))
	pass1D(tmp, in, w, h, 4, horiz, true, opts.Edge)
	pass1D(in, tmp, w, h, 4, vert, false, opts.Edge)
	dst := planeToBuffer(in, src, opts)
	putPlane(tmp)
	putPlane(in)
	return dst, nil
}

// Convolve applies a full 2D kernel.
func Convolve(src *Buffer, k Kernel2D, opts ConvolveOptions) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	if src.Empty() {
		return src.Clone(), nil
	}
	if k.Size <= 0 || k.Size%2 == 0 || len(k.Weights) != k.Size*k.Size {
		Logger().Warn("malformed 2D kernel ignored", "size", k.Size, "weights", len(k.Weights))
		return src.Clone(), nil
	}
	in := toPlane(src)
	out := getPlane(len(in))
	pass2D(out, in, src.Width, src.Height, 4, k, opts.Edge)
	dst := planeToBuffer(out, src, opts)
	putPlane(out)
	putPlane(in)
	return dst, nil
}

// GaussianParams configures GaussianBlur. Sigma <= 0 defaults to Radius/3.
type GaussianParams struct {
	Radius int
	Sigma  float64
}

// GaussianBlur is a separable Gaussian blur with clamped borders. Radius 0
// returns a copy of src.
func GaussianBlur(src *Buffer, p GaussianParams) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	k := GaussianKernel(p.Radius, p.Sigma)
	if k.Radius == 0 {
		return src.Clone(), nil
	}
	return ConvolveSeparable(src, k, k, ConvolveOptions{})
}

// BoxBlur is a separable mean filter over a (2r+1)² window.
func BoxBlur(src *Buffer, radius int) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	k := BoxKernel(radius)
	if k.Radius == 0 {
		return src.Clone(), nil
	}
	return ConvolveSeparable(src, k, k, ConvolveOptions{})
}

// MotionParams configures MotionBlur. Angle is in degrees, counter-clockwise
// from the positive x axis.
type MotionParams struct {
	Length float64
	Angle  float64
}

// MotionBlur smears src along a line. Axis-aligned angles run as a single
// 1D pass; other angles use a rasterized 2D line kernel.
func MotionBlur(src *Buffer, p MotionParams) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	k := MotionKernel(p.Length, p.Angle)
	if k.Size == 1 {
		return src.Clone(), nil
	}
	a := math.Mod(p.Angle, 180)
	if a < 0 {
		a += 180
	}
	if finite(a) && (a == 0 || a == 90) {
		line := axisLine(k, a == 0)
		id := identityKernel1D()
		if a == 0 {
			return ConvolveSeparable(src, line, id, ConvolveOptions{})
		}
		return ConvolveSeparable(src, id, line, ConvolveOptions{})
	}
	return Convolve(src, k, ConvolveOptions{})
}

// axisLine collapses an axis-aligned 2D line kernel to its 1D profile.
func axisLine(k Kernel2D, horizontal bool) Kernel1D {
	r := k.Radius()
	out := make([]float64, k.Size)
	for y := 0; y < k.Size; y++ {
		for x := 0; x < k.Size; x++ {
			if horizontal {
				out[x] += k.At(x, y)
			} else {
				out[y] += k.At(x, y)
			}
		}
	}
	return Kernel1D{Weights: out, Radius: r}
}
