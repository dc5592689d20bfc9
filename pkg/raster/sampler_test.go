package raster

import (
	"math"
	"testing"
)

func TestSampleIntegerIsExact(t *testing.T) {
	src := makeNoise(9, 7, 3)
	for _, edge := range []EdgePolicy{EdgeClamp, EdgeTransparent} {
		for y := 0; y < src.Height; y++ {
			for x := 0; x < src.Width; x++ {
				if got, want := Sample(src, float64(x), float64(y), edge), src.At(x, y); got != want {
					t.Fatalf("%v: Sample(%d,%d) = %v, want %v", edge, x, y, got, want)
				}
			}
		}
	}
}

func TestSampleBilinearMidpoint(t *testing.T) {
	src := NewBuffer(2, 2)
	src.Set(0, 0, RGBA{0, 0, 0, 255})
	src.Set(1, 0, RGBA{100, 0, 0, 255})
	src.Set(0, 1, RGBA{0, 200, 0, 255})
	src.Set(1, 1, RGBA{100, 200, 0, 255})
	v := SampleF(src, 0.5, 0.5, EdgeClamp)
	if math.Abs(v[0]-50) > 1e-9 || math.Abs(v[1]-100) > 1e-9 || v[3] != 255 {
		t.Fatalf("midpoint sample = %v", v)
	}
}

func TestSampleEdgePolicies(t *testing.T) {
	src := makeSolid(3, 3, RGBA{10, 20, 30, 255})
	if got := Sample(src, -5, 1, EdgeClamp); got != (RGBA{10, 20, 30, 255}) {
		t.Fatalf("clamp outside = %v", got)
	}
	if got := Sample(src, -5, 1, EdgeTransparent); got != (RGBA{}) {
		t.Fatalf("transparent outside = %v", got)
	}
	// half a pixel past the border blends with transparent black
	if got := SampleF(src, 2.5, 1, EdgeTransparent); got[3] != 127.5 {
		t.Fatalf("transparent border alpha = %v, want 127.5", got[3])
	}
}

func TestSampleNonFinite(t *testing.T) {
	src := makeSolid(2, 2, RGBA{1, 2, 3, 4})
	if got := Sample(src, math.NaN(), 0, EdgeClamp); got != (RGBA{}) {
		t.Fatalf("NaN sample = %v, want zero", got)
	}
	if got := SampleNearest(src, 0.4, 1.6, EdgeClamp); got != (RGBA{1, 2, 3, 4}) {
		t.Fatalf("nearest = %v", got)
	}
}

func TestParseEdgePolicy(t *testing.T) {
	for _, e := range []EdgePolicy{EdgeClamp, EdgeTransparent} {
		got, ok := ParseEdgePolicy(e.String())
		if !ok || got != e {
			t.Fatalf("ParseEdgePolicy(%q) = %v, %v", e.String(), got, ok)
		}
	}
	if _, ok := ParseEdgePolicy("mirror"); ok {
		t.Fatalf("unknown policy accepted")
	}
}
