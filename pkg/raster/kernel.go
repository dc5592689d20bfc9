package raster

import "math"

// maxKernelRadius bounds every generated kernel.
const maxKernelRadius = 256

// Kernel1D is a symmetric-window 1D kernel of len 2*Radius+1.
type Kernel1D struct {
	Weights []float64
	Radius  int
}

// Kernel2D is a square kernel of Size x Size weights in row-major order.
// Size is odd.
type Kernel2D struct {
	Weights []float64
	Size    int
}

// Sum returns the total weight.
func (k Kernel1D) Sum() float64 {
	s := 0.0
	for _, w := range k.Weights {
		s += w
	}
	return s
}

// Sum returns the total weight.
func (k Kernel2D) Sum() float64 {
	s := 0.0
	for _, w := range k.Weights {
		s += w
	}
	return s
}

// At returns the weight at column x, row y (0-based).
func (k Kernel2D) At(x, y int) float64 {
	return k.Weights[y*k.Size+x]
}

// Radius is the half-width of the kernel.
func (k Kernel2D) Radius() int {
	return k.Size / 2
}

// minSigma is the smallest Gaussian sigma the kernels accept.
const minSigma = 0.05

func identityKernel1D() Kernel1D {
	return Kernel1D{Weights: []float64{1}, Radius: 0}
}

// GaussianKernel builds a normalized Gaussian with weights exp(-x²/2σ²).
// sigma <= 0 defaults to radius/3. Radius 0 is the identity kernel.
func GaussianKernel(radius int, sigma float64) Kernel1D {
	radius = clampIntParam("gaussian.radius", radius, 0, maxKernelRadius)
	if radius == 0 {
		return identityKernel1D()
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		sigma = float64(radius) / 3
	}
	// below the floor 2σ² underflows and every tap becomes NaN
	sigma = clampParam("gaussian.sigma", sigma, minSigma, 1e6, float64(radius)/3)
	kern := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-(float64(i) * float64(i)) / (2 * sigma * sigma))
		kern[i+radius] = v
		sum += v
	}
	// normalize
	for i := range kern {
		kern[i] /= sum
	}
	return Kernel1D{Weights: kern, Radius: radius}
}

// GaussianRadius is the radius covering ±3σ.
func GaussianRadius(sigma float64) int {
	if !(sigma > 0) {
		return 0
	}
	return clampIntParam("gaussian.radius", int(math.Ceil(3*sigma)), 0, maxKernelRadius)
}

// BoxKernel builds a normalized box of width 2*radius+1.
func BoxKernel(radius int) Kernel1D {
	radius = clampIntParam("box.radius", radius, 0, maxKernelRadius)
	n := 2*radius + 1
	kern := make([]float64, n)
	for i := range kern {
		kern[i] = 1 / float64(n)
	}
	return Kernel1D{Weights: kern, Radius: radius}
}

// MotionKernel rasterizes a normalized line of the given length (pixels)
// through the kernel centre at angle degrees. Lengths <= 1 give the
// identity kernel.
func MotionKernel(length float64, angle float64) Kernel2D {
	length = clampParam("motion.length", length, 0, 2*maxKernelRadius, 0)
	if length <= 1 {
		return Kernel2D{Weights: []float64{1}, Size: 1}
	}
	if !finite(angle) {
		angle = 0
	}
	r := int(math.Ceil(length / 2))
	size := 2*r + 1
	w := make([]float64, size*size)
	cosA := math.Cos(angle * math.Pi / 180)
	sinA := math.Sin(angle * math.Pi / 180)
	// splat sub-pixel points along the line with bilinear weights
	steps := int(math.Ceil(length * 4))
	for s := 0; s <= steps; s++ {
		t := -length/2 + length*float64(s)/float64(steps)
		x := float64(r) + t*cosA
		y := float64(r) - t*sinA
		x0, y0 := math.Floor(x), math.Floor(y)
		fx, fy := x-x0, y-y0
		splat := func(ix, iy int, v float64) {
			if ix >= 0 && iy >= 0 && ix < size && iy < size {
				w[iy*size+ix] += v
			}
		}
		splat(int(x0), int(y0), (1-fx)*(1-fy))
		splat(int(x0)+1, int(y0), fx*(1-fy))
		splat(int(x0), int(y0)+1, (1-fx)*fy)
		splat(int(x0)+1, int(y0)+1, fx*fy)
	}
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	for i := range w {
		w[i] /= sum
	}
	return Kernel2D{Weights: w, Size: size}
}

// Outer returns the separable 2D kernel col ⊗ row.
func Outer(col, row Kernel1D) Kernel2D {
	size := 2*max(col.Radius, row.Radius) + 1
	r := size / 2
	w := make([]float64, size*size)
	for y := -col.Radius; y <= col.Radius; y++ {
		for x := -row.Radius; x <= row.Radius; x++ {
			w[(y+r)*size+(x+r)] = col.Weights[y+col.Radius] * row.Weights[x+row.Radius]
		}
	}
	return Kernel2D{Weights: w, Size: size}
}

// Derivative and smoothing factors of the 3x3 gradient operators.
var (
	centralDiff   = Kernel1D{Weights: []float64{-1, 0, 1}, Radius: 1}
	sobelSmooth   = Kernel1D{Weights: []float64{1, 2, 1}, Radius: 1}
	prewittSmooth = Kernel1D{Weights: []float64{1, 1, 1}, Radius: 1}
)

// SobelKernels returns the x and y Sobel gradient kernels.
func SobelKernels() (gx, gy Kernel2D) {
	return Outer(sobelSmooth, centralDiff), Outer(centralDiff, sobelSmooth)
}

// PrewittKernels returns the x and y Prewitt gradient kernels.
func PrewittKernels() (gx, gy Kernel2D) {
	return Outer(prewittSmooth, centralDiff), Outer(centralDiff, prewittSmooth)
}

// LaplacianKernel returns the 4-neighbour Laplacian, or the 8-neighbour
// one when diagonal is set. Both sum to zero.
func LaplacianKernel(diagonal bool) Kernel2D {
	if diagonal {
		return Kernel2D{Weights: []float64{
			1, 1, 1,
			1, -8, 1,
			1, 1, 1,
		}, Size: 3}
	}
	return Kernel2D{Weights: []float64{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	}, Size: 3}
}
