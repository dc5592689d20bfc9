// Registry of engine commands addressable by name.
//
// This file mirrors the commands implemented in ApplyCommand in engine.go.
// Keep the two in sync so hosts (CLI, help text, validation) read a single
// source of truth.

package raster

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI; ApplyCommand also uses Default for
// omitted optional arguments.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "bool", "string", "enum"
	Required    bool
	Default     string
	Description string
	Min, Max    float64 // numeric range, both zero when unbounded
	Choices     []string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string
	Description string
}

// RequiredArgs counts the leading required arguments.
func (c CommandSpec) RequiredArgs() int {
	n := 0
	for _, a := range c.Args {
		if a.Required {
			n++
		}
	}
	return n
}

func reqFloat(name string, lo, hi float64, desc string) ArgSpec {
	return ArgSpec{Name: name, Type: "float", Required: true, Min: lo, Max: hi, Description: desc}
}

func optFloat(name, def string, lo, hi float64, desc string) ArgSpec {
	return ArgSpec{Name: name, Type: "float", Default: def, Min: lo, Max: hi, Description: desc}
}

func reqInt(name string, lo, hi float64, desc string) ArgSpec {
	return ArgSpec{Name: name, Type: "int", Required: true, Min: lo, Max: hi, Description: desc}
}

func optInt(name, def string, lo, hi float64, desc string) ArgSpec {
	return ArgSpec{Name: name, Type: "int", Default: def, Min: lo, Max: hi, Description: desc}
}

func optBool(name, def, desc string) ArgSpec {
	return ArgSpec{Name: name, Type: "bool", Default: def, Description: desc}
}

func optEnum(name, def string, choices []string, desc string) ArgSpec {
	return ArgSpec{Name: name, Type: "enum", Default: def, Choices: choices, Description: desc}
}

var centerArgs = []ArgSpec{
	optFloat("cx", "0.5", 0, 1, "normalized center x"),
	optFloat("cy", "0.5", 0, 1, "normalized center y"),
}

func withCenter(args ...ArgSpec) []ArgSpec {
	return append(args, centerArgs...)
}

// Commands is the authoritative list of commands implemented by ApplyCommand.
var Commands = []CommandSpec{
	// convolution
	{
		Name:        "gaussianBlur",
		Args:        []ArgSpec{reqInt("radius", 0, maxKernelRadius, "kernel radius in pixels"), optFloat("sigma", "0", 0, 100, "sigma; 0 means radius/3")},
		Usage:       "gaussianBlur <radius> [sigma]",
		Description: "Separable Gaussian blur.",
	},
	{
		Name:        "boxBlur",
		Args:        []ArgSpec{reqInt("radius", 0, maxKernelRadius, "kernel radius in pixels")},
		Usage:       "boxBlur <radius>",
		Description: "Separable mean filter.",
	},
	{
		Name:        "motionBlur",
		Args:        []ArgSpec{reqFloat("length", 0, 2*maxKernelRadius, "streak length in pixels"), optFloat("angle", "0", -360, 360, "direction in degrees")},
		Usage:       "motionBlur <length> [angle]",
		Description: "Linear motion blur.",
	},
	{
		Name: "unsharp",
		Args: []ArgSpec{
			reqInt("radius", 0, maxKernelRadius, "blur radius"),
			optFloat("amount", "1", 0, 10, "detail gain"),
			optFloat("sigma", "0", 0, 100, "blur sigma; 0 means radius/3"),
			optFloat("threshold", "0", 0, 255, "minimum detail to sharpen"),
		},
		Usage:       "unsharp <radius> [amount] [sigma] [threshold]",
		Description: "Unsharp mask sharpening.",
	},
	{
		Name: "edge",
		Args: []ArgSpec{
			optEnum("operator", "sobel", []string{"sobel", "prewitt", "laplacian"}, "gradient operator"),
			optFloat("scale", "1", 0, 100, "magnitude multiplier"),
			optFloat("threshold", "0", 0, 255, "zero magnitudes below this"),
			optFloat("preBlur", "0", 0, 50, "gaussian sigma applied first"),
			optBool("binary", "false", "black and white output"),
		},
		Usage:       "edge [operator] [scale] [threshold] [preBlur] [binary]",
		Description: "Edge magnitude on luminance.",
	},
	{
		Name: "median",
		Args: []ArgSpec{
			reqInt("radius", 0, 64, "window radius"),
			optBool("adaptive", "false", "blend by local deviation"),
			optFloat("threshold", "32", 0, 255, "full-replacement deviation"),
		},
		Usage:       "median <radius> [adaptive] [threshold]",
		Description: "Median filter (sliding-window histogram).",
	},
	{
		Name:        "despeckle",
		Args:        []ArgSpec{},
		Usage:       "despeckle",
		Description: "Radius-1 median filter.",
	},
	{
		Name: "bilateral",
		Args: []ArgSpec{
			reqInt("radius", 0, 32, "window radius"),
			optFloat("sigmaSpatial", "0", 0, 100, "spatial sigma; 0 means radius/2"),
			optFloat("sigmaRange", "25", 0, 255, "colour sigma"),
		},
		Usage:       "bilateral <radius> [sigmaSpatial] [sigmaRange]",
		Description: "Edge-preserving bilateral smoothing.",
	},
	{
		Name:        "convolve",
		Args:        []ArgSpec{{Name: "weights", Type: "string", Required: true, Description: "comma-separated square kernel, row-major"}, optBool("normalize", "true", "divide by the weight sum")},
		Usage:       "convolve <w1,w2,...> [normalize]",
		Description: "Apply an arbitrary odd square kernel.",
	},
	// warps
	{
		Name:        "barrel",
		Args:        withCenter(reqFloat("strength", 0, 4, "distortion strength")),
		Usage:       "barrel <strength> [cx] [cy]",
		Description: "Fisheye bulge; corners become transparent.",
	},
	{
		Name:        "pincushion",
		Args:        withCenter(reqFloat("strength", 0, 0.95, "distortion strength")),
		Usage:       "pincushion <strength> [cx] [cy]",
		Description: "Pincushion distortion.",
	},
	{
		Name:        "swirl",
		Args:        withCenter(reqFloat("angle", -3600, 3600, "rotation at the center in degrees"), reqFloat("radius", 0, 0, "effect radius in pixels"), optInt("direction", "1", -1, 1, "+1 or -1")),
		Usage:       "swirl <angle> <radius> [direction] [cx] [cy]",
		Description: "Twist around the center, fading out at radius.",
	},
	{
		Name:        "pinchBulge",
		Args:        withCenter(reqFloat("amount", -0.95, 0.95, "positive bulges, negative pinches"), reqFloat("radius", 0, 0, "effect radius in pixels")),
		Usage:       "pinchBulge <amount> <radius> [cx] [cy]",
		Description: "Pinch or bulge inside a disc.",
	},
	{
		Name: "wave",
		Args: withCenter(
			ArgSpec{Name: "mode", Type: "enum", Required: true, Choices: []string{"horizontal", "vertical", "both", "ripple"}, Description: "displacement axis"},
			reqFloat("amplitude", 0, 0, "displacement in pixels"),
			reqFloat("frequency", 0, 1000, "cycles across the image"),
			optFloat("phase", "0", 0, 0, "phase in radians"),
		),
		Usage:       "wave <mode> <amplitude> <frequency> [phase] [cx] [cy]",
		Description: "Sinusoidal displacement or ripple.",
	},
	{
		Name: "perspective",
		Args: []ArgSpec{
			reqFloat("tlx", 0, 0, "top-left x offset"), reqFloat("tly", 0, 0, "top-left y offset"),
			reqFloat("trx", 0, 0, "top-right x offset"), reqFloat("try", 0, 0, "top-right y offset"),
			reqFloat("brx", 0, 0, "bottom-right x offset"), reqFloat("bry", 0, 0, "bottom-right y offset"),
			reqFloat("blx", 0, 0, "bottom-left x offset"), reqFloat("bly", 0, 0, "bottom-left y offset"),
			optBool("clip", "false", "keep the source size"),
		},
		Usage:       "perspective <tlx> <tly> <trx> <try> <brx> <bry> <blx> <bly> [clip]",
		Description: "Move the four corners by pixel offsets.",
	},
	{
		Name: "channelShift",
		Args: withCenter(
			ArgSpec{Name: "mode", Type: "enum", Required: true, Choices: []string{"linear", "radial"}, Description: "offset direction"},
			reqFloat("red", 0, 0, "red offset in pixels"),
			reqFloat("green", 0, 0, "green offset in pixels"),
			reqFloat("blue", 0, 0, "blue offset in pixels"),
			optFloat("angle", "0", -360, 360, "direction for linear mode"),
		),
		Usage:       "channelShift <mode> <red> <green> <blue> [angle] [cx] [cy]",
		Description: "Chromatic aberration by per-channel offsets.",
	},
	// tone
	{
		Name: "level",
		Args: []ArgSpec{
			reqFloat("blackPoint", 0, 255, "input black"),
			reqFloat("gamma", 0, 100, "midtone gamma"),
			reqFloat("whitePoint", 0, 255, "input white"),
			optFloat("outputBlack", "0", 0, 255, "output black"),
			optFloat("outputWhite", "255", 0, 255, "output white"),
		},
		Usage:       "level <blackPoint> <gamma> <whitePoint> [outputBlack] [outputWhite]",
		Description: "Adjust levels through a lookup table.",
	},
	{
		Name:        "autoLevel",
		Args:        []ArgSpec{optFloat("clipPercent", "0.5", 0, 49.9, "share ignored at each end")},
		Usage:       "autoLevel [clipPercent]",
		Description: "Stretch luminance percentiles to full range.",
	},
	{
		Name:        "autoGamma",
		Args:        []ArgSpec{},
		Usage:       "autoGamma",
		Description: "Move mean luminance to mid-grey.",
	},
	{
		Name:        "normalize",
		Args:        []ArgSpec{},
		Usage:       "normalize",
		Description: "Stretch per-channel extremes to full [0,255].",
	},
	{
		Name:        "equalize",
		Args:        []ArgSpec{},
		Usage:       "equalize",
		Description: "Per-channel histogram equalization.",
	},
	{
		Name:        "gamma",
		Args:        []ArgSpec{reqFloat("gamma", 0, 100, "gamma; >1 brightens")},
		Usage:       "gamma <gamma>",
		Description: "Gamma correction.",
	},
	{
		Name:        "negate",
		Args:        []ArgSpec{},
		Usage:       "negate",
		Description: "Invert colours.",
	},
	{
		Name:        "posterize",
		Args:        []ArgSpec{reqInt("levels", 0, 256, "levels per channel")},
		Usage:       "posterize <levels>",
		Description: "Reduce each channel to evenly spaced levels.",
	},
	{
		Name:        "curve",
		Args:        []ArgSpec{{Name: "points", Type: "string", Required: true, Description: "in:out pairs, comma separated"}},
		Usage:       "curve <in:out,in:out,...>",
		Description: "Monotone cubic tone curve.",
	},
	{
		Name: "modulate",
		Args: []ArgSpec{
			reqFloat("brightness", 0, 1000, "lightness percent"),
			optFloat("saturation", "100", 0, 1000, "saturation percent"),
			optFloat("hue", "0", -360, 360, "hue rotation in degrees"),
		},
		Usage:       "modulate <brightness> [saturation] [hue]",
		Description: "Adjust lightness, saturation and hue.",
	},
	{
		Name: "vignette",
		Args: withCenter(
			reqFloat("strength", 0, 1, "darkening at the radius"),
			optFloat("radius", "0", 0, 0, "full-strength distance in pixels; 0 means half the diagonal"),
			optFloat("sigma", "0", 0, 0, "falloff; 0 means radius/3"),
		),
		Usage:       "vignette <strength> [radius] [sigma] [cx] [cy]",
		Description: "Radial darkening toward the corners.",
	},
}

// Lookup returns the spec of a registered command.
func Lookup(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
