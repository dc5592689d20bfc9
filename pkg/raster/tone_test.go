package raster

import (
	"math"
	"testing"
)

func TestBuildLUTIdentity(t *testing.T) {
	if got := BuildLUT(IdentityLevels()); got != IdentityLUT() {
		t.Fatalf("identity levels did not give the identity LUT")
	}
	// empty input range falls back to the identity
	if got := BuildLUT(Levels{InputBlack: 200, InputWhite: 100, Gamma: 1, OutputWhite: 255}); got != IdentityLUT() {
		t.Fatalf("white <= black should be the identity")
	}
}

func TestBuildLUTMonotone(t *testing.T) {
	cases := []Levels{
		{InputBlack: 0, InputWhite: 255, Gamma: 0.3, OutputBlack: 0, OutputWhite: 255},
		{InputBlack: 20, InputWhite: 230, Gamma: 2.2, OutputBlack: 10, OutputWhite: 240},
		{InputBlack: 100, InputWhite: 101, Gamma: 1, OutputBlack: 0, OutputWhite: 255},
		{InputBlack: -50, InputWhite: 900, Gamma: math.NaN(), OutputBlack: 0, OutputWhite: 255},
	}
	for _, lv := range cases {
		l := BuildLUT(lv)
		if !l.Monotone() {
			t.Fatalf("LUT for %+v is not monotone", lv)
		}
	}
}

func TestBuildLUTEndpoints(t *testing.T) {
	l := BuildLUT(Levels{InputBlack: 50, InputWhite: 200, Gamma: 1.8, OutputBlack: 10, OutputWhite: 240})
	if l[0] != 10 || l[50] != 10 || l[200] != 240 || l[255] != 240 {
		t.Fatalf("endpoints: l[0]=%d l[50]=%d l[200]=%d l[255]=%d", l[0], l[50], l[200], l[255])
	}
	// gamma > 1 brightens the midtones
	if l[125] <= 125 {
		t.Fatalf("gamma 1.8 midpoint %d should exceed the linear value", l[125])
	}
	// gamma <= 0 is treated as 1
	if BuildLUT(Levels{InputWhite: 255, Gamma: -3, OutputWhite: 255}) != IdentityLUT() {
		t.Fatalf("negative gamma should behave like 1")
	}
}

func TestApplyLUTKeepsAlpha(t *testing.T) {
	src := makeSolid(3, 3, RGBA{10, 20, 30, 77})
	out, err := ApplyLUT(src, NegateLUT())
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(1, 1); got != (RGBA{245, 235, 225, 77}) {
		t.Fatalf("negated pixel = %v", got)
	}
}

func TestAutoLevelsPercentile(t *testing.T) {
	src := NewBuffer(100, 10)
	for i := 0; i < 1000; i++ {
		v := uint8(100)
		switch {
		case i < 2:
			v = 0 // outliers below the clip share
		case i >= 500:
			v = 200
		}
		src.Pix[i*4+0], src.Pix[i*4+1], src.Pix[i*4+2], src.Pix[i*4+3] = v, v, v, 255
	}
	lv := AutoLevels(src, 0.5)
	if lv.InputBlack != 100 || lv.InputWhite != 200 {
		t.Fatalf("auto levels = %+v, want black 100 white 200", lv)
	}
	lv = AutoLevels(src, 0)
	if lv.InputBlack != 0 {
		t.Fatalf("zero clip should keep the darkest pixel, got %v", lv.InputBlack)
	}
	out, err := AutoLevel(src, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(50, 0).R != 0 || out.At(50, 9).R != 255 {
		t.Fatalf("auto level stretch: %v %v", out.At(50, 0), out.At(50, 9))
	}
}

func TestAutoLevelsFlatImage(t *testing.T) {
	src := makeSolid(4, 4, RGBA{90, 90, 90, 255})
	if lv := AutoLevels(src, DefaultClipPercent); lv != IdentityLevels() {
		t.Fatalf("flat image should give identity levels, got %+v", lv)
	}
}

func TestCurveLUT(t *testing.T) {
	if CurveLUT([]CurvePoint{{0, 0}, {255, 255}}) != IdentityLUT() {
		t.Fatalf("diagonal curve is not the identity")
	}
	if CurveLUT(nil) != IdentityLUT() {
		t.Fatalf("empty curve is not the identity")
	}
	s := CurveLUT([]CurvePoint{{0, 0}, {64, 40}, {128, 128}, {192, 220}, {255, 255}})
	if !s.Monotone() {
		t.Fatalf("S curve is not monotone")
	}
	if s[64] != 40 || s[192] != 220 {
		t.Fatalf("curve misses control points: %d %d", s[64], s[192])
	}
	flat := CurveLUT([]CurvePoint{{100, 50}, {200, 150}})
	if flat[0] != 50 || flat[255] != 150 {
		t.Fatalf("curve should hold flat outside its points: %d %d", flat[0], flat[255])
	}
}

func TestPosterizeLUT(t *testing.T) {
	l := PosterizeLUT(2)
	if l[0] != 0 || l[127] != 0 || l[128] != 255 || l[255] != 255 {
		t.Fatalf("posterize 2: %d %d %d %d", l[0], l[127], l[128], l[255])
	}
	if PosterizeLUT(1) != IdentityLUT() {
		t.Fatalf("posterize 1 should be the identity")
	}
}

func TestEqualizeSpreadsValues(t *testing.T) {
	src := NewBuffer(2, 1)
	src.Set(0, 0, RGBA{100, 100, 100, 255})
	src.Set(1, 0, RGBA{110, 110, 110, 255})
	out, err := Equalize(src)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(1, 0).R != 255 || out.At(0, 0).R != 128 {
		t.Fatalf("equalize = %v %v", out.At(0, 0), out.At(1, 0))
	}
}

func TestAutoGammaMovesMeanTowardMid(t *testing.T) {
	src := makeSolid(4, 4, RGBA{40, 40, 40, 255})
	out, err := AutoGamma(src)
	if err != nil {
		t.Fatal(err)
	}
	if v := out.At(0, 0).R; v < 120 || v > 135 {
		t.Fatalf("auto gamma result %d, want near 128", v)
	}
}

func TestModulateNeutral(t *testing.T) {
	src := makeNoise(5, 5, 9)
	out, err := Modulate(src, ModulateParams{Brightness: 100, Saturation: 100, Hue: 360})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(src) {
		t.Fatalf("neutral modulate changed the image")
	}
	gray, err := Modulate(src, ModulateParams{Brightness: 100, Saturation: 0})
	if err != nil {
		t.Fatal(err)
	}
	c := gray.At(2, 2)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("zero saturation should be gray, got %v", c)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]RGBA{
		"red":       {255, 0, 0, 255},
		"#0f08":     {0, 255, 0, 136},
		"#102030":   {16, 32, 48, 255},
		"#10203040": {16, 32, 48, 64},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "nocolor", "#12345", "#gggggg"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}
