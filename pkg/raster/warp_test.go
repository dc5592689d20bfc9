package raster

import (
	"math"
	"testing"
)

func maxDiff(a, b *Buffer) int {
	d := 0
	for i := range a.Pix {
		v := int(a.Pix[i]) - int(b.Pix[i])
		if v < 0 {
			v = -v
		}
		d = max(d, v)
	}
	return d
}

func TestWarpNeutralParamsAreIdentity(t *testing.T) {
	src := makeNoise(16, 12, 7)
	specs := []WarpSpec{
		Barrel{Strength: 0, Center: DefaultCenter},
		Pincushion{Strength: 0, Center: DefaultCenter},
		Swirl{Angle: 0, Radius: 10, Center: DefaultCenter},
		PinchBulge{Amount: 0, Radius: 10, Center: DefaultCenter},
		Wave{Mode: WaveBoth, Amplitude: 0, Frequency: 3},
		Wave{Mode: WaveRipple, Amplitude: 0, Frequency: 3, Center: DefaultCenter},
		Perspective{},
		ChannelShift{Mode: ShiftRadial, Center: DefaultCenter},
	}
	for _, spec := range specs {
		out, err := Warp(src, spec)
		if err != nil {
			t.Fatalf("%s: %v", spec.Name(), err)
		}
		if !out.Equal(src) {
			t.Fatalf("%s with neutral parameters changed the image", spec.Name())
		}
	}
}

func TestSwirlZeroAngleIdentity(t *testing.T) {
	src := makeGradient(20, 20, 10)
	out, err := Warp(src, Swirl{Angle: 0, Radius: 50, Direction: -1, Center: DefaultCenter})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(src) {
		t.Fatalf("swirl angle 0 is not the identity")
	}
}

func TestZeroRadiusIsIdentity(t *testing.T) {
	src := makeNoise(10, 10, 1)
	for _, spec := range []WarpSpec{
		Swirl{Angle: 90, Radius: 0, Center: DefaultCenter},
		Swirl{Angle: 90, Radius: -4, Center: DefaultCenter},
		PinchBulge{Amount: 0.5, Radius: 0, Center: DefaultCenter},
	} {
		out, err := Warp(src, spec)
		if err != nil {
			t.Fatal(err)
		}
		if !out.Equal(src) {
			t.Fatalf("%s with radius <= 0 changed the image", spec.Name())
		}
	}
}

func TestPinchThenBulgeRoundTrip(t *testing.T) {
	src := makeGradient(32, 32, 8)
	pinched, err := Warp(src, PinchBulge{Amount: -0.5, Radius: 12, Center: DefaultCenter})
	if err != nil {
		t.Fatal(err)
	}
	if pinched.Equal(src) {
		t.Fatalf("pinch had no effect")
	}
	back, err := Warp(pinched, PinchBulge{Amount: 0.5, Radius: 12, Center: DefaultCenter})
	if err != nil {
		t.Fatal(err)
	}
	if d := maxDiff(back, src); d > 3 {
		t.Fatalf("pinch then bulge deviates by %d", d)
	}
}

func TestSwirlMovesInsideRadiusOnly(t *testing.T) {
	src := makeGradient(31, 31, 8)
	out, err := Warp(src, Swirl{Angle: 180, Radius: 8, Center: DefaultCenter})
	if err != nil {
		t.Fatal(err)
	}
	if out.At(0, 0) != src.At(0, 0) || out.At(30, 30) != src.At(30, 30) {
		t.Fatalf("swirl changed pixels outside its radius")
	}
	if out.At(12, 15) == src.At(12, 15) {
		t.Fatalf("swirl did not move pixels inside its radius")
	}
}

func TestBarrelCornersTransparent(t *testing.T) {
	src := makeSolid(20, 20, RGBA{200, 100, 50, 255})
	out, err := Warp(src, Barrel{Strength: 1, Center: DefaultCenter})
	if err != nil {
		t.Fatal(err)
	}
	if a := out.At(0, 0).A; a != 0 {
		t.Fatalf("barrel corner alpha = %d, want 0", a)
	}
	if c := out.At(10, 10); c != (RGBA{200, 100, 50, 255}) {
		t.Fatalf("barrel center = %v", c)
	}
}

func TestWaveHorizontalShiftsRows(t *testing.T) {
	src := makeGradient(16, 16, 10)
	// phase pi/2 makes row 0 shift by the full amplitude
	out, err := Warp(src, Wave{Mode: WaveHorizontal, Amplitude: 2, Frequency: 1, Phase: math.Pi / 2})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.At(4, 0).R, src.At(6, 0).R; got != want {
		t.Fatalf("wave row 0 x=4: R=%d, want %d", got, want)
	}
	if got := out.At(4, 0).G; got != src.At(4, 0).G {
		t.Fatalf("horizontal wave moved vertically")
	}
}

func TestChannelShiftKeepsAlpha(t *testing.T) {
	src := makeGradient(12, 12, 20)
	out, err := Warp(src, ChannelShift{Mode: ShiftLinear, Red: 2})
	if err != nil {
		t.Fatal(err)
	}
	// linear angle 0: red is read 2px to the left
	if got, want := out.At(5, 3).R, src.At(3, 3).R; got != want {
		t.Fatalf("shifted red = %d, want %d", got, want)
	}
	if out.At(5, 3).G != src.At(5, 3).G || out.At(5, 3).A != src.At(5, 3).A {
		t.Fatalf("unshifted channels changed")
	}
}

func TestRemapNonFiniteKeepsSource(t *testing.T) {
	src := makeNoise(6, 5, 11)
	out := remap(src, EdgeClamp, "test", func(x, y float64) (float64, float64) {
		if int(x)%2 == 0 {
			return math.NaN(), y
		}
		return x, math.Inf(1)
	})
	if !out.Equal(src) {
		t.Fatalf("non-finite coordinates were not replaced by the source pixel")
	}
}

func TestPerspectiveTranslation(t *testing.T) {
	src := makeNoise(10, 8, 5)
	shift := Point{X: 3, Y: 2}
	out, err := Warp(src, Perspective{TopLeft: shift, TopRight: shift, BottomRight: shift, BottomLeft: shift})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(src) {
		t.Fatalf("uniform corner shift should reproduce the source, max diff %d", maxDiff(out, src))
	}
}

func TestPerspectiveGrowAndClip(t *testing.T) {
	src := makeSolid(20, 10, RGBA{50, 60, 70, 255})
	p := Perspective{TopRight: Point{X: 6, Y: -4}}
	grown, err := Warp(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if grown.Width != 26 || grown.Height != 14 {
		t.Fatalf("grown canvas %dx%d, want 26x14", grown.Width, grown.Height)
	}
	if c := grown.At(0, 13); c != (RGBA{50, 60, 70, 255}) {
		t.Fatalf("bottom-left inside quad = %v", c)
	}
	if a := grown.At(0, 0).A; a != 0 {
		t.Fatalf("area outside the quad should be transparent, alpha %d", a)
	}
	clipped, err := WarpWith(src, p, WarpOptions{Edge: EdgeClamp, Clip: true})
	if err != nil {
		t.Fatal(err)
	}
	if clipped.Width != 20 || clipped.Height != 10 {
		t.Fatalf("clipped canvas %dx%d, want 20x10", clipped.Width, clipped.Height)
	}
}

func TestWarpRejectsInvalidBuffer(t *testing.T) {
	if _, err := Warp(&Buffer{Width: 2, Height: 2}, Swirl{}); err == nil {
		t.Fatalf("expected error for buffer without pixels")
	}
	empty := NewBuffer(0, 5)
	out, err := Warp(empty, Barrel{Strength: 2})
	if err != nil || !out.Empty() {
		t.Fatalf("empty buffer: %v, %v", out, err)
	}
}

func TestWarpClampsWildParameters(t *testing.T) {
	src := makeNoise(8, 8, 2)
	for _, spec := range []WarpSpec{
		Barrel{Strength: 1e9},
		Pincushion{Strength: math.NaN()},
		PinchBulge{Amount: -50, Radius: 4, Center: Point{X: 7, Y: -3}},
		Wave{Mode: WaveRipple, Amplitude: math.Inf(1), Frequency: 1e12},
		ChannelShift{Mode: ShiftRadial, Red: 1e6, Blue: -1e6},
	} {
		out, err := Warp(src, spec)
		if err != nil {
			t.Fatalf("%s: %v", spec.Name(), err)
		}
		if out.Width != src.Width || out.Height != src.Height {
			t.Fatalf("%s changed size", spec.Name())
		}
	}
}
