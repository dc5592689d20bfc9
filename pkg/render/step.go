// Package render schedules engine work for interactive hosts: steps are
// collected in immutable pipelines that always re-render from one retained
// original, and a Session debounces submissions and drops stale results.
package render

import (
	"fmt"
	"strings"

	"github.com/Fepozopo/rasterfx/pkg/raster"
)

// Step is one engine operation in a pipeline. Apply must not modify src.
type Step interface {
	Name() string
	Apply(src *raster.Buffer) (*raster.Buffer, error)
}

// StepFunc adapts a function to Step.
type StepFunc struct {
	Label string
	Fn    func(src *raster.Buffer) (*raster.Buffer, error)
}

func (s StepFunc) Name() string { return s.Label }

func (s StepFunc) Apply(src *raster.Buffer) (*raster.Buffer, error) {
	return s.Fn(src)
}

// CommandStep runs a registry command by name.
type CommandStep struct {
	Command string
	Args    []string
}

func (s CommandStep) Name() string { return s.Command }

func (s CommandStep) Apply(src *raster.Buffer) (*raster.Buffer, error) {
	return raster.ApplyCommand(src, s.Command, s.Args)
}

func (s CommandStep) String() string {
	if len(s.Args) == 0 {
		return s.Command
	}
	return s.Command + " " + strings.Join(s.Args, " ")
}

// WarpStep applies a geometric warp. A nil Options uses the variant's
// default edge policy and grows the canvas where applicable.
type WarpStep struct {
	Spec    raster.WarpSpec
	Options *raster.WarpOptions
}

func (s WarpStep) Name() string {
	if s.Spec == nil {
		return "warp"
	}
	return s.Spec.Name()
}

func (s WarpStep) Apply(src *raster.Buffer) (*raster.Buffer, error) {
	if s.Options != nil {
		return raster.WarpWith(src, s.Spec, *s.Options)
	}
	return raster.Warp(src, s.Spec)
}

// MixStep runs Inner and blends its output back over the step's input,
// either uniformly by Weight or per pixel by Mask. This is how localized
// effects (selective blur, feathered cutouts) are expressed.
type MixStep struct {
	Inner  Step
	Weight float64
	Mask   *raster.Mask
	Mode   raster.BlendMode
}

func (s MixStep) Name() string {
	if s.Inner == nil {
		return "mix"
	}
	return "mix(" + s.Inner.Name() + ")"
}

func (s MixStep) Apply(src *raster.Buffer) (*raster.Buffer, error) {
	if s.Inner == nil {
		return nil, fmt.Errorf("mix step without inner step")
	}
	processed, err := s.Inner.Apply(src)
	if err != nil {
		return nil, err
	}
	if s.Mask != nil {
		return raster.BlendMask(src, processed, s.Mask, s.Mode)
	}
	return raster.Blend(src, processed, s.Weight, s.Mode)
}
