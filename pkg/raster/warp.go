package raster

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate. Centers are normalized to [0,1] of the image
// width and height; offsets are in pixels.
type Point struct {
	X, Y float64
}

// DefaultCenter is the middle of the image.
var DefaultCenter = Point{X: 0.5, Y: 0.5}

// WarpSpec is one geometric distortion. It is implemented by Barrel,
// Pincushion, Swirl, PinchBulge, Wave, Perspective and ChannelShift.
type WarpSpec interface {
	// Name is the registry name of the variant.
	Name() string
	// DefaultEdge is the boundary policy used when WarpOptions are not given.
	DefaultEdge() EdgePolicy
	warp(src *Buffer, opts WarpOptions) *Buffer
}

// WarpOptions controls boundary reads and canvas sizing.
type WarpOptions struct {
	Edge EdgePolicy
	// Clip keeps the source dimensions for variants that would otherwise
	// grow the canvas (Perspective). The default grows to fit.
	Clip bool
}

// Warp applies spec to src with the variant's default options.
func Warp(src *Buffer, spec WarpSpec) (*Buffer, error) {
	if spec == nil {
		return nil, fmt.Errorf("nil warp spec")
	}
	return WarpWith(src, spec, WarpOptions{Edge: spec.DefaultEdge()})
}

// WarpWith applies spec to src. The source is never modified. Zero-area
// sources are returned as an empty clone.
func WarpWith(src *Buffer, spec WarpSpec, opts WarpOptions) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, fmt.Errorf("nil warp spec")
	}
	if src.Empty() {
		return src.Clone(), nil
	}
	return spec.warp(src, opts), nil
}

// coordMap maps a destination pixel centre to a source coordinate.
type coordMap func(x, y float64) (sx, sy float64)

// remap is the inverse-mapping loop shared by the single-coordinate
// variants. Non-finite source coordinates fall back to the source pixel.
func remap(src *Buffer, edge EdgePolicy, name string, fn coordMap) *Buffer {
	w, h := src.Width, src.Height
	dst := NewBuffer(w, h)
	substituted := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := dst.Offset(x, y)
			sx, sy := fn(float64(x), float64(y))
			if !finite(sx) || !finite(sy) {
				copy(dst.Pix[i:i+4], src.Pix[i:i+4])
				substituted++
				continue
			}
			c := SampleF(src, sx, sy, edge)
			dst.Pix[i+0] = clampRound(c[0])
			dst.Pix[i+1] = clampRound(c[1])
			dst.Pix[i+2] = clampRound(c[2])
			dst.Pix[i+3] = clampRound(c[3])
		}
	}
	if substituted > 0 {
		Logger().Debug("non-finite source coordinates replaced with identity", "warp", name, "pixels", substituted)
	}
	return dst
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// centerPx converts a normalized center into pixel-centre coordinates.
func centerPx(c Point, w, h int) (float64, float64) {
	cx := clamp01(c.X)*float64(w) - 0.5
	cy := clamp01(c.Y)*float64(h) - 0.5
	return cx, cy
}

func halfDiagonal(w, h int) float64 {
	return math.Hypot(float64(w), float64(h)) / 2
}

// Barrel is a fisheye bulge: source radius = r^(1+Strength) in units of
// half the shorter image side.
type Barrel struct {
	Strength float64 // [0,4]
	Center   Point
}

func (Barrel) Name() string            { return "barrel" }
func (Barrel) DefaultEdge() EdgePolicy { return EdgeTransparent }

func (b Barrel) warp(src *Buffer, opts WarpOptions) *Buffer {
	s := clampParam("barrel.strength", b.Strength, 0, 4, 0)
	if s == 0 {
		return src.Clone()
	}
	return radialPow(src, opts.Edge, b.Name(), b.Center, 1+s)
}

// Pincushion is the inverse of Barrel: source radius = r^(1-Strength).
type Pincushion struct {
	Strength float64 // [0,0.95]
	Center   Point
}

func (Pincushion) Name() string            { return "pincushion" }
func (Pincushion) DefaultEdge() EdgePolicy { return EdgeTransparent }

func (p Pincushion) warp(src *Buffer, opts WarpOptions) *Buffer {
	s := clampParam("pincushion.strength", p.Strength, 0, 0.95, 0)
	if s == 0 {
		return src.Clone()
	}
	return radialPow(src, opts.Edge, p.Name(), p.Center, 1-s)
}

// radialPow remaps the normalized radius through pow(r, exp), keeping the
// angle around the center.
func radialPow(src *Buffer, edge EdgePolicy, name string, center Point, exp float64) *Buffer {
	w, h := src.Width, src.Height
	cx, cy := centerPx(center, w, h)
	maxR := float64(min(w, h)) / 2
	if maxR <= 0 {
		return src.Clone()
	}
	return remap(src, edge, name, func(x, y float64) (float64, float64) {
		dx := x - cx
		dy := y - cy
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			return x, y
		}
		r := dist / maxR
		scale := math.Pow(r, exp) / r
		return cx + dx*scale, cy + dy*scale
	})
}

// Swirl rotates pixels around the center by
// Direction*Angle*(1-dist/Radius)^2, fading to nothing at Radius.
type Swirl struct {
	Angle     float64 // degrees, [-3600,3600]
	Radius    float64 // pixels; <= 0 is no effect
	Direction int     // +1 or -1; 0 means +1
	Center    Point
}

func (Swirl) Name() string            { return "swirl" }
func (Swirl) DefaultEdge() EdgePolicy { return EdgeClamp }

func (s Swirl) warp(src *Buffer, opts WarpOptions) *Buffer {
	angle := clampParam("swirl.angle", s.Angle, -3600, 3600, 0)
	radius := s.Radius
	if angle == 0 || !(radius > 0) || math.IsInf(radius, 0) {
		return src.Clone()
	}
	dir := 1.0
	if s.Direction < 0 {
		dir = -1
	}
	maxAngle := dir * angle * math.Pi / 180
	cx, cy := centerPx(s.Center, src.Width, src.Height)
	return remap(src, opts.Edge, s.Name(), func(x, y float64) (float64, float64) {
		dx := x - cx
		dy := y - cy
		dist := math.Hypot(dx, dy)
		if dist >= radius {
			return x, y
		}
		f := 1 - dist/radius
		theta := math.Atan2(dy, dx) + maxAngle*f*f
		return cx + dist*math.Cos(theta), cy + dist*math.Sin(theta)
	})
}

// PinchBulge reshapes the disc of Radius around Center. Amount > 0 bulges
// with exponent 1-Amount, Amount < 0 pinches with exponent 1/(1+Amount).
// A pinch and a bulge of equal magnitude cancel.
type PinchBulge struct {
	Amount float64 // [-0.95,0.95]
	Radius float64 // pixels; <= 0 is no effect
	Center Point
}

func (PinchBulge) Name() string            { return "pinch" }
func (PinchBulge) DefaultEdge() EdgePolicy { return EdgeClamp }

func (p PinchBulge) warp(src *Buffer, opts WarpOptions) *Buffer {
	amount := clampParam("pinch.amount", p.Amount, -0.95, 0.95, 0)
	radius := p.Radius
	if amount == 0 || !(radius > 0) || math.IsInf(radius, 0) {
		return src.Clone()
	}
	exp := 1 - amount
	if amount < 0 {
		exp = 1 / (1 + amount)
	}
	cx, cy := centerPx(p.Center, src.Width, src.Height)
	return remap(src, opts.Edge, p.Name(), func(x, y float64) (float64, float64) {
		dx := x - cx
		dy := y - cy
		dist := math.Hypot(dx, dy)
		if dist == 0 || dist >= radius {
			return x, y
		}
		srcDist := radius * math.Pow(dist/radius, exp)
		scale := srcDist / dist
		return cx + dx*scale, cy + dy*scale
	})
}

// WaveMode selects the displacement axis of a Wave.
type WaveMode uint8

const (
	WaveHorizontal WaveMode = iota
	WaveVertical
	WaveBoth
	WaveRipple
)

func (m WaveMode) String() string {
	switch m {
	case WaveHorizontal:
		return "horizontal"
	case WaveVertical:
		return "vertical"
	case WaveBoth:
		return "both"
	case WaveRipple:
		return "ripple"
	default:
		return "unknown"
	}
}

// ParseWaveMode parses a WaveMode name.
func ParseWaveMode(s string) (WaveMode, bool) {
	switch stringUpper(s) {
	case "HORIZONTAL", "H", "":
		return WaveHorizontal, true
	case "VERTICAL", "V":
		return WaveVertical, true
	case "BOTH":
		return WaveBoth, true
	case "RIPPLE":
		return WaveRipple, true
	}
	return WaveHorizontal, false
}

// Wave displaces pixels sinusoidally. Frequency counts cycles across the
// image (or across the half diagonal for ripples).
type Wave struct {
	Mode      WaveMode
	Amplitude float64 // pixels
	Frequency float64 // cycles, [0,1000]
	Phase     float64 // radians
	Center    Point   // ripple only
}

func (Wave) Name() string            { return "wave" }
func (Wave) DefaultEdge() EdgePolicy { return EdgeClamp }

func (wv Wave) warp(src *Buffer, opts WarpOptions) *Buffer {
	w, h := src.Width, src.Height
	limit := float64(max(w, h))
	amp := clampParam("wave.amplitude", wv.Amplitude, -limit, limit, 0)
	freq := clampParam("wave.frequency", wv.Frequency, 0, 1000, 0)
	phase := wv.Phase
	if !finite(phase) {
		phase = 0
	}
	if amp == 0 {
		return src.Clone()
	}
	k := 2 * math.Pi * freq
	fw, fh := float64(w), float64(h)
	switch wv.Mode {
	case WaveVertical:
		return remap(src, opts.Edge, wv.Name(), func(x, y float64) (float64, float64) {
			return x, y + amp*math.Sin(k*(x/fw)+phase)
		})
	case WaveBoth:
		return remap(src, opts.Edge, wv.Name(), func(x, y float64) (float64, float64) {
			return x + amp*math.Sin(k*(y/fh)+phase), y + amp*math.Sin(k*(x/fw)+phase)
		})
	case WaveRipple:
		cx, cy := centerPx(wv.Center, w, h)
		maxR := halfDiagonal(w, h)
		return remap(src, opts.Edge, wv.Name(), func(x, y float64) (float64, float64) {
			dx := x - cx
			dy := y - cy
			dist := math.Hypot(dx, dy)
			if dist == 0 {
				return x, y
			}
			nd := dist + amp*math.Sin(k*(dist/maxR)+phase)
			scale := nd / dist
			return cx + dx*scale, cy + dy*scale
		})
	default:
		return remap(src, opts.Edge, wv.Name(), func(x, y float64) (float64, float64) {
			return x + amp*math.Sin(k*(y/fh)+phase), y
		})
	}
}

// ShiftMode selects how ChannelShift offsets are directed.
type ShiftMode uint8

const (
	// ShiftLinear moves each channel along Angle by its offset.
	ShiftLinear ShiftMode = iota
	// ShiftRadial moves each channel away from Center, scaled by the
	// distance from the center relative to the half diagonal.
	ShiftRadial
)

func (m ShiftMode) String() string {
	if m == ShiftRadial {
		return "radial"
	}
	return "linear"
}

// ParseShiftMode parses a ShiftMode name.
func ParseShiftMode(s string) (ShiftMode, bool) {
	switch stringUpper(s) {
	case "LINEAR", "":
		return ShiftLinear, true
	case "RADIAL":
		return ShiftRadial, true
	}
	return ShiftLinear, false
}

// ChannelShift samples R, G and B from independently offset coordinates
// (chromatic aberration). Alpha is always read unshifted.
type ChannelShift struct {
	Mode             ShiftMode
	Red, Green, Blue float64 // offsets in pixels
	Angle            float64 // degrees, linear mode
	Center           Point   // radial mode
}

func (ChannelShift) Name() string            { return "channelShift" }
func (ChannelShift) DefaultEdge() EdgePolicy { return EdgeClamp }

func (c ChannelShift) warp(src *Buffer, opts WarpOptions) *Buffer {
	w, h := src.Width, src.Height
	limit := float64(max(w, h))
	offs := [3]float64{
		clampParam("channelShift.red", c.Red, -limit, limit, 0),
		clampParam("channelShift.green", c.Green, -limit, limit, 0),
		clampParam("channelShift.blue", c.Blue, -limit, limit, 0),
	}
	if offs == [3]float64{} {
		return src.Clone()
	}
	angle := c.Angle
	if !finite(angle) {
		angle = 0
	}
	cosA := math.Cos(angle * math.Pi / 180)
	sinA := math.Sin(angle * math.Pi / 180)
	cx, cy := centerPx(c.Center, w, h)
	maxR := halfDiagonal(w, h)

	dst := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := dst.Offset(x, y)
			fx, fy := float64(x), float64(y)
			ux, uy, scale := cosA, sinA, 1.0
			if c.Mode == ShiftRadial {
				dx := fx - cx
				dy := fy - cy
				dist := math.Hypot(dx, dy)
				if dist == 0 {
					ux, uy, scale = 0, 0, 0
				} else {
					ux, uy, scale = dx/dist, dy/dist, dist/maxR
				}
			}
			for ch := 0; ch < 3; ch++ {
				if offs[ch] == 0 || scale == 0 {
					dst.Pix[i+ch] = src.Pix[i+ch]
					continue
				}
				d := offs[ch] * scale
				v := SampleF(src, fx-ux*d, fy-uy*d, opts.Edge)
				dst.Pix[i+ch] = clampRound(v[ch])
			}
			dst.Pix[i+3] = src.Pix[i+3]
		}
	}
	return dst
}
