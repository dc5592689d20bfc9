package raster

import "math"

// DefaultClipPercent is the share of pixels AutoLevels ignores at each end
// of the luminance histogram.
const DefaultClipPercent = 0.5

// LuminanceHistogram counts pixels by rounded Rec.709 luminance.
func LuminanceHistogram(src *Buffer) [256]int {
	var hist [256]int
	if src == nil {
		return hist
	}
	for i := 0; i+3 < len(src.Pix); i += 4 {
		hist[clampRound(luminance(src.Pix[i], src.Pix[i+1], src.Pix[i+2]))]++
	}
	return hist
}

// ChannelHistograms counts each colour channel separately.
func ChannelHistograms(src *Buffer) (r, g, b [256]int) {
	if src == nil {
		return
	}
	for i := 0; i+3 < len(src.Pix); i += 4 {
		r[src.Pix[i+0]]++
		g[src.Pix[i+1]]++
		b[src.Pix[i+2]]++
	}
	return
}

// AutoLevels derives black and white points from the luminance histogram:
// walking inwards from each end, the point is the first bin at which the
// cumulative count exceeds clipPercent of all pixels. Negative or NaN
// clipPercent means DefaultClipPercent. A degenerate range gives
// IdentityLevels.
func AutoLevels(src *Buffer, clipPercent float64) Levels {
	if src == nil || src.Empty() {
		return IdentityLevels()
	}
	if clipPercent < 0 || math.IsNaN(clipPercent) {
		clipPercent = DefaultClipPercent
	}
	clipPercent = clampParam("autoLevels.clip", clipPercent, 0, 49.9, DefaultClipPercent)
	hist := LuminanceHistogram(src)
	limit := float64(src.Width*src.Height) * clipPercent / 100

	black, white := 0, 255
	cum := 0
	for v := 0; v < 256; v++ {
		cum += hist[v]
		if float64(cum) > limit {
			black = v
			break
		}
	}
	cum = 0
	for v := 255; v >= 0; v-- {
		cum += hist[v]
		if float64(cum) > limit {
			white = v
			break
		}
	}
	if white <= black {
		return IdentityLevels()
	}
	lv := IdentityLevels()
	lv.InputBlack = float64(black)
	lv.InputWhite = float64(white)
	return lv
}

// AutoLevel stretches src with the levels found by AutoLevels.
func AutoLevel(src *Buffer, clipPercent float64) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	lv := AutoLevels(src, clipPercent)
	Logger().Debug("auto levels", "black", lv.InputBlack, "white", lv.InputWhite)
	return ApplyLevels(src, lv)
}

// EqualizeLUTs builds per-channel histogram equalization tables.
func EqualizeLUTs(src *Buffer) [3]LUT {
	if src == nil || src.Empty() {
		id := IdentityLUT()
		return [3]LUT{id, id, id}
	}
	r, g, b := ChannelHistograms(src)
	total := float64(src.Width * src.Height)
	var out [3]LUT
	for c, hist := range [3][256]int{r, g, b} {
		cdf := 0
		for i := 0; i < 256; i++ {
			cdf += hist[i]
			out[c][i] = clampRound(float64(cdf) / total * 255)
		}
	}
	return out
}

// Equalize applies EqualizeLUTs.
func Equalize(src *Buffer) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	l := EqualizeLUTs(src)
	return ApplyLUTs(src, l[0], l[1], l[2])
}

// NormalizeLUTs stretches each channel's extremes to [0,255].
func NormalizeLUTs(src *Buffer) [3]LUT {
	id := IdentityLUT()
	out := [3]LUT{id, id, id}
	if src == nil || src.Empty() {
		return out
	}
	r, g, b := ChannelHistograms(src)
	for c, hist := range [3][256]int{r, g, b} {
		lo, hi := 0, 255
		for lo < 255 && hist[lo] == 0 {
			lo++
		}
		for hi > 0 && hist[hi] == 0 {
			hi--
		}
		if hi > lo {
			lv := IdentityLevels()
			lv.InputBlack, lv.InputWhite = float64(lo), float64(hi)
			out[c] = BuildLUT(lv)
		}
	}
	return out
}

// Normalize applies NormalizeLUTs.
func Normalize(src *Buffer) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	l := NormalizeLUTs(src)
	return ApplyLUTs(src, l[0], l[1], l[2])
}

// AutoGammaLevels picks the gamma that moves mean luminance to mid-grey.
func AutoGammaLevels(src *Buffer) Levels {
	lv := IdentityLevels()
	if src == nil || src.Empty() {
		return lv
	}
	mean := 0.0
	for i := 0; i+3 < len(src.Pix); i += 4 {
		mean += luminance(src.Pix[i], src.Pix[i+1], src.Pix[i+2]) / 255
	}
	mean /= float64(src.Width * src.Height)
	if mean <= 0 || mean >= 1 {
		return lv
	}
	// mean^(1/g) = 0.5
	g := math.Log(mean) / math.Log(0.5)
	if !finite(g) {
		return lv
	}
	lv.Gamma = clampParam("autoGamma.gamma", g, 0.1, 10, 1)
	return lv
}

// AutoGamma applies AutoGammaLevels.
func AutoGamma(src *Buffer) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	return ApplyLevels(src, AutoGammaLevels(src))
}
