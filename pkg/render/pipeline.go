package render

import (
	"context"
	"fmt"
	"time"

	"github.com/Fepozopo/rasterfx/pkg/raster"
)

// Pipeline is an immutable ordered list of steps. Every modifier returns a
// new Pipeline and leaves the receiver untouched, so a pipeline handed to a
// background render never changes underneath it.
type Pipeline struct {
	steps []Step
}

// NewPipeline builds a pipeline from steps.
func NewPipeline(steps ...Step) Pipeline {
	return Pipeline{steps: append([]Step(nil), steps...)}
}

// Len is the number of steps.
func (p Pipeline) Len() int { return len(p.steps) }

// Steps returns a copy of the step list.
func (p Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// With appends s.
func (p Pipeline) With(s Step) Pipeline {
	out := make([]Step, len(p.steps), len(p.steps)+1)
	copy(out, p.steps)
	return Pipeline{steps: append(out, s)}
}

// Without drops the step at index i. Out-of-range indexes return p.
func (p Pipeline) Without(i int) Pipeline {
	if i < 0 || i >= len(p.steps) {
		return p
	}
	out := make([]Step, 0, len(p.steps)-1)
	out = append(out, p.steps[:i]...)
	return Pipeline{steps: append(out, p.steps[i+1:]...)}
}

// Undo drops the last step.
func (p Pipeline) Undo() Pipeline {
	return p.Without(len(p.steps) - 1)
}

// Render re-derives the result from original by running every step in
// order. original is never modified. ctx is checked between steps.
func (p Pipeline) Render(ctx context.Context, original *raster.Buffer) (*raster.Buffer, error) {
	if err := original.Valid(); err != nil {
		return nil, err
	}
	cur := original.Clone()
	for i, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		out, err := s.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s.Name(), err)
		}
		raster.Logger().Debug("render step", "index", i+1, "step", s.Name(), "elapsed", time.Since(start))
		cur = out
	}
	return cur, nil
}
