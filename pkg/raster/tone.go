package raster

import "math"

// LUT maps an 8-bit channel value to a new one.
type LUT [256]uint8

// IdentityLUT returns the LUT that maps every value to itself.
func IdentityLUT() LUT {
	var l LUT
	for i := range l {
		l[i] = uint8(i)
	}
	return l
}

// Monotone reports whether l never decreases.
func (l LUT) Monotone() bool {
	for i := 1; i < len(l); i++ {
		if l[i] < l[i-1] {
			return false
		}
	}
	return true
}

// Levels describes an input range remapped through a gamma curve onto an
// output range. All points are in [0,255].
type Levels struct {
	InputBlack  float64
	InputWhite  float64
	Gamma       float64
	OutputBlack float64
	OutputWhite float64
}

// IdentityLevels leaves every value unchanged.
func IdentityLevels() Levels {
	return Levels{InputBlack: 0, InputWhite: 255, Gamma: 1, OutputBlack: 0, OutputWhite: 255}
}

// BuildLUT normalizes [InputBlack,InputWhite] to [0,1], clamps, raises to
// 1/Gamma and rescales onto [OutputBlack,OutputWhite]. Gamma <= 0 is
// treated as 1. An empty input range (white <= black) yields the identity.
func BuildLUT(lv Levels) LUT {
	black := clampParam("levels.inputBlack", lv.InputBlack, 0, 255, 0)
	white := clampParam("levels.inputWhite", lv.InputWhite, 0, 255, 255)
	if white <= black {
		Logger().Debug("empty levels input range", "black", black, "white", white)
		return IdentityLUT()
	}
	gamma := lv.Gamma
	if !(gamma > 0) || !finite(gamma) {
		gamma = 1
	}
	gamma = clampParam("levels.gamma", gamma, 0.01, 100, 1)
	outB := clampParam("levels.outputBlack", lv.OutputBlack, 0, 255, 0)
	outW := clampParam("levels.outputWhite", lv.OutputWhite, 0, 255, 255)
	inv := 1 / gamma

	var l LUT
	for i := range l {
		n := clamp01((float64(i) - black) / (white - black))
		if gamma != 1 {
			n = math.Pow(n, inv)
		}
		l[i] = clampRound(outB + n*(outW-outB))
	}
	return l
}

// ApplyLUT maps the colour channels of src through lut. Alpha is kept.
func ApplyLUT(src *Buffer, lut LUT) (*Buffer, error) {
	return ApplyLUTs(src, lut, lut, lut)
}

// ApplyLUTs maps each colour channel through its own table.
func ApplyLUTs(src *Buffer, r, g, b LUT) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	dst := NewBuffer(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 4 {
		dst.Pix[i+0] = r[src.Pix[i+0]]
		dst.Pix[i+1] = g[src.Pix[i+1]]
		dst.Pix[i+2] = b[src.Pix[i+2]]
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst, nil
}

// ApplyLevels is BuildLUT followed by ApplyLUT.
func ApplyLevels(src *Buffer, lv Levels) (*Buffer, error) {
	return ApplyLUT(src, BuildLUT(lv))
}

// GammaLUT raises normalized values to 1/gamma.
func GammaLUT(gamma float64) LUT {
	lv := IdentityLevels()
	lv.Gamma = gamma
	return BuildLUT(lv)
}

// NegateLUT inverts every value.
func NegateLUT() LUT {
	var l LUT
	for i := range l {
		l[i] = uint8(255 - i)
	}
	return l
}

// PosterizeLUT quantizes to the given number of evenly spaced levels.
// Fewer than 2 levels gives the identity.
func PosterizeLUT(levels int) LUT {
	levels = clampIntParam("posterize.levels", levels, 0, 256)
	if levels < 2 {
		return IdentityLUT()
	}
	step := 255.0 / float64(levels-1)
	var l LUT
	for i := range l {
		l[i] = clampRound(math.Round(float64(i)/step) * step)
	}
	return l
}
