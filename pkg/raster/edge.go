package raster

import (
	"fmt"
	"math"
	"strings"
)

// EdgeOperator selects the gradient estimator used by EdgeDetect.
type EdgeOperator uint8

const (
	EdgeSobel EdgeOperator = iota
	EdgePrewitt
	EdgeLaplacian
)

func (op EdgeOperator) String() string {
	switch op {
	case EdgeSobel:
		return "sobel"
	case EdgePrewitt:
		return "prewitt"
	case EdgeLaplacian:
		return "laplacian"
	}
	return fmt.Sprintf("EdgeOperator(%d)", uint8(op))
}

// ParseEdgeOperator accepts the names produced by String.
func ParseEdgeOperator(s string) (EdgeOperator, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sobel", "":
		return EdgeSobel, true
	case "prewitt":
		return EdgePrewitt, true
	case "laplacian", "laplace":
		return EdgeLaplacian, true
	}
	return EdgeSobel, false
}

// EdgeParams configures EdgeDetect.
type EdgeParams struct {
	Operator EdgeOperator
	// PreBlur is the sigma of an optional Gaussian applied first.
	PreBlur float64
	// Scale multiplies the magnitude. Zero means 1.
	Scale float64
	// Threshold in [0,255]; magnitudes below it are zeroed. Zero disables.
	Threshold float64
	// Binary turns thresholded output into pure black and white.
	Binary bool
	// Normalize stretches the strongest response to 255.
	Normalize bool
	// Diagonal selects the 8-neighbour Laplacian.
	Diagonal bool
}

// EdgeDetect returns a grayscale edge-magnitude image computed on luminance.
// Sobel and Prewitt combine separable x and y gradients as sqrt(gx²+gy²);
// Laplacian takes the absolute response of a zero-sum kernel. Alpha is
// copied from src.
func EdgeDetect(src *Buffer, p EdgeParams) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	if src.Empty() {
		return src.Clone(), nil
	}
	proc := src
	if p.PreBlur > 0 {
		sigma := clampParam("edge.preBlur", p.PreBlur, 0, maxKernelRadius/3, 0)
		var err error
		proc, err = GaussianBlur(src, GaussianParams{Radius: GaussianRadius(sigma), Sigma: sigma})
		if err != nil {
			return nil, err
		}
	}
	scale := p.Scale
	if scale <= 0 || !finite(scale) {
		scale = 1
	}
	threshold := clampParam("edge.threshold", p.Threshold, 0, 255, 0)

	w, h := src.Width, src.Height
	n := w * h
	lum := lumaPlane(proc)
	mag := getPlane(n)
	defer putPlane(lum)
	defer putPlane(mag)

	switch p.Operator {
	case EdgeLaplacian:
		pass2D(mag, lum, w, h, 1, LaplacianKernel(p.Diagonal), EdgeClamp)
		for i := range mag {
			mag[i] = math.Abs(mag[i])
		}
	default:
		smooth := sobelSmooth
		if p.Operator == EdgePrewitt {
			smooth = prewittSmooth
		}
		tmp := getPlane(n)
		gx := getPlane(n)
		defer putPlane(tmp)
		defer putPlane(gx)
		pass1D(tmp, lum, w, h, 1, centralDiff, true, EdgeClamp)
		pass1D(gx, tmp, w, h, 1, smooth, false, EdgeClamp)
		pass1D(tmp, lum, w, h, 1, smooth, true, EdgeClamp)
		pass1D(mag, tmp, w, h, 1, centralDiff, false, EdgeClamp)
		for i := range mag {
			mag[i] = math.Sqrt(gx[i]*gx[i] + mag[i]*mag[i])
		}
	}

	norm := scale
	if p.Normalize {
		maxMag := 0.0
		for _, m := range mag {
			maxMag = math.Max(maxMag, m)
		}
		if maxMag > 0 {
			norm = 255 / maxMag
		}
	}

	dst := NewBuffer(w, h)
	for i := 0; i < n; i++ {
		m := mag[i] * norm
		if threshold > 0 && m < threshold {
			m = 0
		} else if threshold > 0 && p.Binary {
			m = 255
		}
		v := clampRound(m)
		j := i * 4
		dst.Pix[j+0] = v
		dst.Pix[j+1] = v
		dst.Pix[j+2] = v
		dst.Pix[j+3] = src.Pix[j+3]
	}
	return dst, nil
}
