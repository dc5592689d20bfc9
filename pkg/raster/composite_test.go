package raster

import (
	"errors"
	"math"
	"testing"
)

func TestBlendScreen(t *testing.T) {
	a := makeSolid(2, 2, RGBA{100, 0, 255, 255})
	b := makeSolid(2, 2, RGBA{100, 255, 0, 255})
	out, err := Blend(a, b, 1, BlendScreen)
	if err != nil {
		t.Fatal(err)
	}
	// 255 - (255-100)*(255-100)/255 = 160.78
	if got := out.At(0, 0); got != (RGBA{161, 255, 255, 255}) {
		t.Fatalf("screen = %v", got)
	}
}

func TestBlendWeights(t *testing.T) {
	a := makeSolid(3, 3, RGBA{0, 0, 0, 255})
	b := makeSolid(3, 3, RGBA{200, 100, 50, 255})
	zero, err := Blend(a, b, 0, BlendNormal)
	if err != nil || !zero.Equal(a) {
		t.Fatalf("weight 0 should return base: %v", err)
	}
	full, err := Blend(a, b, 1, BlendNormal)
	if err != nil || !full.Equal(b) {
		t.Fatalf("weight 1 normal should return overlay: %v", err)
	}
	half, err := Blend(a, b, 0.5, BlendNormal)
	if err != nil {
		t.Fatal(err)
	}
	if got := half.At(1, 1); got != (RGBA{100, 50, 25, 255}) {
		t.Fatalf("half blend = %v", got)
	}
}

func TestBlendModes(t *testing.T) {
	a := makeSolid(1, 1, RGBA{51, 204, 128, 255})
	b := makeSolid(1, 1, RGBA{204, 51, 128, 255})
	cases := []struct {
		mode BlendMode
		want RGBA
	}{
		{BlendLighten, RGBA{204, 204, 128, 255}},
		{BlendDarken, RGBA{51, 51, 128, 255}},
		{BlendAdd, RGBA{255, 255, 255, 255}},
		{BlendDifference, RGBA{153, 153, 0, 255}},
		{BlendMultiply, RGBA{41, 41, 64, 255}},
	}
	for _, c := range cases {
		out, err := Blend(a, b, 1, c.mode)
		if err != nil {
			t.Fatal(err)
		}
		if got := out.At(0, 0); got != c.want {
			t.Fatalf("%v = %v, want %v", c.mode, got, c.want)
		}
		parsed, ok := ParseBlendMode(c.mode.String())
		if !ok || parsed != c.mode {
			t.Fatalf("ParseBlendMode(%q) = %v", c.mode.String(), parsed)
		}
	}
}

func TestBlendMaskLocalizes(t *testing.T) {
	base := makeSolid(4, 1, RGBA{0, 0, 0, 255})
	over := makeSolid(4, 1, RGBA{255, 255, 255, 255})
	m := NewMask(4, 1)
	m.Set(1, 0, 1)
	m.Set(2, 0, 0.5)
	out, err := BlendMask(base, over, m, BlendNormal)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(0, 0).R != 0 || out.At(1, 0).R != 255 || out.At(2, 0).R != 128 || out.At(3, 0).R != 0 {
		t.Fatalf("mask blend = %v", out.Pix)
	}
}

func TestBlendSizeErrors(t *testing.T) {
	a := NewBuffer(2, 2)
	if _, err := Blend(a, NewBuffer(3, 2), 1, BlendNormal); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	if _, err := BlendMask(a, NewBuffer(2, 2), NewMask(1, 1), BlendNormal); !errors.Is(err, ErrMaskMismatch) {
		t.Fatalf("expected ErrMaskMismatch, got %v", err)
	}
	if _, err := Blend(nil, a, 1, BlendNormal); !errors.Is(err, ErrInvalidBuffer) {
		t.Fatalf("expected ErrInvalidBuffer, got %v", err)
	}
}

func TestBlendMaskNaNWeightKeepsBase(t *testing.T) {
	base := makeSolid(2, 1, RGBA{40, 80, 120, 255})
	over := makeSolid(2, 1, RGBA{255, 255, 255, 255})
	m := NewMask(2, 1)
	m.Weights[0] = float32(math.NaN())
	m.Weights[1] = 1
	out, err := BlendMask(base, over, m, BlendNormal)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(0, 0); got != (RGBA{40, 80, 120, 255}) {
		t.Fatalf("NaN weight pixel = %+v, want base", got)
	}
	if got := out.At(1, 0); got != (RGBA{255, 255, 255, 255}) {
		t.Fatalf("full weight pixel = %+v", got)
	}
}
