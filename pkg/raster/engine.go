package raster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// args reads positional command arguments, falling back to the registry
// default for omitted optional ones.
type args struct {
	spec CommandSpec
	vals []string
}

func (a args) raw(i int) string {
	if i < len(a.vals) && strings.TrimSpace(a.vals[i]) != "" {
		return strings.TrimSpace(a.vals[i])
	}
	return a.spec.Args[i].Default
}

func (a args) num(i int) (float64, error) {
	s := a.raw(i)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", a.spec.Args[i].Name, err)
	}
	return v, nil
}

func (a args) integer(i int) (int, error) {
	s := a.raw(i)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", a.spec.Args[i].Name, err)
	}
	return v, nil
}

func (a args) flag(i int) (bool, error) {
	s := a.raw(i)
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", a.spec.Args[i].Name, err)
	}
	return v, nil
}

// floats parses every argument from i on as a float.
func (a args) floats(from int) ([]float64, error) {
	out := make([]float64, 0, len(a.spec.Args)-from)
	for i := from; i < len(a.spec.Args); i++ {
		v, err := a.num(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (a args) center(from int) (Point, error) {
	x, err := a.num(from)
	if err != nil {
		return Point{}, err
	}
	y, err := a.num(from + 1)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// ApplyCommand runs the named registry command on src with textual
// arguments and returns a new buffer.
func ApplyCommand(src *Buffer, commandName string, argv []string) (*Buffer, error) {
	if err := src.Valid(); err != nil {
		return nil, err
	}
	spec, ok := Lookup(commandName)
	if !ok {
		return nil, fmt.Errorf("%q: %w", commandName, ErrUnknownCommand)
	}
	if len(argv) < spec.RequiredArgs() || len(argv) > len(spec.Args) {
		return nil, fmt.Errorf("%s: got %d args, usage: %s", commandName, len(argv), spec.Usage)
	}
	a := args{spec: spec, vals: argv}
	Logger().Debug("apply command", "name", commandName, "args", argv)

	switch commandName {
	case "gaussianBlur":
		radius, err := a.integer(0)
		if err != nil {
			return nil, err
		}
		sigma, err := a.num(1)
		if err != nil {
			return nil, err
		}
		return GaussianBlur(src, GaussianParams{Radius: radius, Sigma: sigma})

	case "boxBlur":
		radius, err := a.integer(0)
		if err != nil {
			return nil, err
		}
		return BoxBlur(src, radius)

	case "motionBlur":
		v, err := a.floats(0)
		if err != nil {
			return nil, err
		}
		return MotionBlur(src, MotionParams{Length: v[0], Angle: v[1]})

	case "unsharp":
		radius, err := a.integer(0)
		if err != nil {
			return nil, err
		}
		v, err := a.floats(1)
		if err != nil {
			return nil, err
		}
		return UnsharpMask(src, UnsharpParams{Radius: radius, Amount: v[0], Sigma: v[1], Threshold: v[2]})

	case "edge":
		op, ok := ParseEdgeOperator(a.raw(0))
		if !ok {
			return nil, fmt.Errorf("invalid operator: %q", a.raw(0))
		}
		v := make([]float64, 3)
		for i := range v {
			var err error
			if v[i], err = a.num(i + 1); err != nil {
				return nil, err
			}
		}
		binary, err := a.flag(4)
		if err != nil {
			return nil, err
		}
		return EdgeDetect(src, EdgeParams{Operator: op, Scale: v[0], Threshold: v[1], PreBlur: v[2], Binary: binary})

	case "median":
		radius, err := a.integer(0)
		if err != nil {
			return nil, err
		}
		adaptive, err := a.flag(1)
		if err != nil {
			return nil, err
		}
		threshold, err := a.num(2)
		if err != nil {
			return nil, err
		}
		return MedianFilter(src, MedianParams{Radius: radius, Adaptive: adaptive, Threshold: threshold})

	case "despeckle":
		return Despeckle(src)

	case "bilateral":
		radius, err := a.integer(0)
		if err != nil {
			return nil, err
		}
		v, err := a.floats(1)
		if err != nil {
			return nil, err
		}
		return Bilateral(src, BilateralParams{Radius: radius, SigmaSpatial: v[0], SigmaRange: v[1]})

	case "convolve":
		k, err := ParseKernel(a.raw(0))
		if err != nil {
			return nil, err
		}
		normalize, err := a.flag(1)
		if err != nil {
			return nil, err
		}
		if sum := k.Sum(); normalize && sum != 0 {
			for i := range k.Weights {
				k.Weights[i] /= sum
			}
		}
		return Convolve(src, k, ConvolveOptions{})

	case "barrel", "pincushion":
		strength, err := a.num(0)
		if err != nil {
			return nil, err
		}
		c, err := a.center(1)
		if err != nil {
			return nil, err
		}
		if commandName == "barrel" {
			return Warp(src, Barrel{Strength: strength, Center: c})
		}
		return Warp(src, Pincushion{Strength: strength, Center: c})

	case "swirl":
		v, err := a.floats(0)
		if err != nil {
			return nil, err
		}
		dir, err := a.integer(2)
		if err != nil {
			return nil, err
		}
		c, err := a.center(3)
		if err != nil {
			return nil, err
		}
		return Warp(src, Swirl{Angle: v[0], Radius: v[1], Direction: dir, Center: c})

	case "pinchBulge":
		v, err := a.floats(0)
		if err != nil {
			return nil, err
		}
		return Warp(src, PinchBulge{Amount: v[0], Radius: v[1], Center: Point{X: v[2], Y: v[3]}})

	case "wave":
		mode, ok := ParseWaveMode(a.raw(0))
		if !ok {
			return nil, fmt.Errorf("invalid mode: %q", a.raw(0))
		}
		v, err := a.floats(1)
		if err != nil {
			return nil, err
		}
		return Warp(src, Wave{Mode: mode, Amplitude: v[0], Frequency: v[1], Phase: v[2], Center: Point{X: v[3], Y: v[4]}})

	case "perspective":
		v := make([]float64, 8)
		for i := range v {
			var err error
			if v[i], err = a.num(i); err != nil {
				return nil, err
			}
		}
		clip, err := a.flag(8)
		if err != nil {
			return nil, err
		}
		p := Perspective{
			TopLeft:     Point{X: v[0], Y: v[1]},
			TopRight:    Point{X: v[2], Y: v[3]},
			BottomRight: Point{X: v[4], Y: v[5]},
			BottomLeft:  Point{X: v[6], Y: v[7]},
		}
		return WarpWith(src, p, WarpOptions{Edge: p.DefaultEdge(), Clip: clip})

	case "channelShift":
		mode, ok := ParseShiftMode(a.raw(0))
		if !ok {
			return nil, fmt.Errorf("invalid mode: %q", a.raw(0))
		}
		v, err := a.floats(1)
		if err != nil {
			return nil, err
		}
		return Warp(src, ChannelShift{
			Mode: mode, Red: v[0], Green: v[1], Blue: v[2], Angle: v[3],
			Center: Point{X: v[4], Y: v[5]},
		})

	case "level":
		v, err := a.floats(0)
		if err != nil {
			return nil, err
		}
		return ApplyLevels(src, Levels{
			InputBlack: v[0], Gamma: v[1], InputWhite: v[2],
			OutputBlack: v[3], OutputWhite: v[4],
		})

	case "autoLevel":
		clip, err := a.num(0)
		if err != nil {
			return nil, err
		}
		return AutoLevel(src, clip)

	case "autoGamma":
		return AutoGamma(src)

	case "normalize":
		return Normalize(src)

	case "equalize":
		return Equalize(src)

	case "gamma":
		g, err := a.num(0)
		if err != nil {
			return nil, err
		}
		return ApplyLUT(src, GammaLUT(g))

	case "negate":
		return ApplyLUT(src, NegateLUT())

	case "posterize":
		levels, err := a.integer(0)
		if err != nil {
			return nil, err
		}
		return ApplyLUT(src, PosterizeLUT(levels))

	case "curve":
		pts, err := ParseCurvePoints(a.raw(0))
		if err != nil {
			return nil, err
		}
		return ApplyLUT(src, CurveLUT(pts))

	case "modulate":
		v, err := a.floats(0)
		if err != nil {
			return nil, err
		}
		return Modulate(src, ModulateParams{Brightness: v[0], Saturation: v[1], Hue: v[2]})

	case "vignette":
		v, err := a.floats(0)
		if err != nil {
			return nil, err
		}
		return Vignette(src, VignetteParams{Strength: v[0], Radius: v[1], Sigma: v[2], Center: Point{X: v[3], Y: v[4]}})
	}
	return nil, fmt.Errorf("%q has no handler: %w", commandName, ErrUnknownCommand)
}

// ParseKernel reads a comma-separated odd square kernel in row-major order.
func ParseKernel(s string) (Kernel2D, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	n := len(fields)
	size := int(math.Round(math.Sqrt(float64(n))))
	if n == 0 || size*size != n || size%2 == 0 {
		return Kernel2D{}, fmt.Errorf("kernel needs an odd square number of weights, got %d", n)
	}
	w := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Kernel2D{}, fmt.Errorf("invalid weight %d: %w", i, err)
		}
		w[i] = v
	}
	return Kernel2D{Weights: w, Size: size}, nil
}

// ParseCurvePoints reads "in:out" pairs separated by commas.
func ParseCurvePoints(s string) ([]CurvePoint, error) {
	var pts []CurvePoint
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		in, out, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid curve point %q: want in:out", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(in), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid curve input: %w", err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid curve output: %w", err)
		}
		pts = append(pts, CurvePoint{In: x, Out: y})
	}
	if len(pts) < 2 {
		return nil, fmt.Errorf("curve needs at least 2 points")
	}
	return pts, nil
}
