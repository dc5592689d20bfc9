package raster

import "sync"

// Multi-pass filters own their float intermediates; this pool recycles the
// backing arrays between calls so repeated renders stop allocating.
var planePool = sync.Pool{
	New: func() any { return new([]float64) },
}

// getPlane returns a slice of length n with unspecified contents.
func getPlane(n int) []float64 {
	p := planePool.Get().(*[]float64)
	if cap(*p) < n {
		*p = make([]float64, n)
	}
	return (*p)[:n]
}

func putPlane(s []float64) {
	if s == nil {
		return
	}
	planePool.Put(&s)
}

// toPlane widens b into a float plane with 4 interleaved channels.
func toPlane(b *Buffer) []float64 {
	p := getPlane(len(b.Pix))
	for i, v := range b.Pix {
		p[i] = float64(v)
	}
	return p
}

// lumaPlane computes a single-channel Rec.709 luminance plane.
func lumaPlane(b *Buffer) []float64 {
	n := b.Width * b.Height
	p := getPlane(n)
	for i := 0; i < n; i++ {
		j := i * 4
		p[i] = luminance(b.Pix[j], b.Pix[j+1], b.Pix[j+2])
	}
	return p
}
