// Package cli is the interactive terminal host for the raster engine. It
// keeps the opened image as the original, appends engine commands to a
// render pipeline and re-renders the whole pipeline after every change.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fepozopo/rasterfx/pkg/raster"
	"github.com/Fepozopo/rasterfx/pkg/render"
)

// App is one interactive editing session.
type App struct {
	cfg    Config
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// pick selects a command interactively; nil falls back to a numbered list.
	pick func([]raster.CommandSpec) (string, error)
	// update runs the update check; nil uses CheckForUpdates.
	update func() error

	session  *render.Session
	pipeline render.Pipeline
	current  *raster.Buffer
	path     string
}

// NewApp returns an App reading commands from in.
func NewApp(cfg Config, in io.Reader, out, errOut io.Writer) *App {
	return &App{cfg: cfg, in: bufio.NewReader(in), out: out, errOut: errOut}
}

// Current returns the latest rendered buffer, or nil before an image is open.
func (a *App) Current() *raster.Buffer { return a.current }

// Pipeline returns the steps applied to the original.
func (a *App) Pipeline() render.Pipeline { return a.pipeline }

// Close releases the render session.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Commands available:")
	fmt.Fprintln(a.out, "  /  - select and apply command (or: / name arg...)")
	fmt.Fprintln(a.out, "  w  - mix the last step with the previous result")
	fmt.Fprintln(a.out, "  l  - list applied steps")
	fmt.Fprintln(a.out, "  z  - undo last step")
	fmt.Fprintln(a.out, "  r  - reset to the original")
	fmt.Fprintln(a.out, "  o  - open another image")
	fmt.Fprintln(a.out, "  s  - save current image")
	fmt.Fprintln(a.out, "  x  - export current image as raw "+RawExt)
	fmt.Fprintln(a.out, "  u  - check for updates")
	fmt.Fprintln(a.out, "  h  - show this help message")
	fmt.Fprintln(a.out, "  q  - quit")
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Open loads path and starts a fresh session with it as the original.
func (a *App) Open(path string) error {
	buf, err := LoadImage(path)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", path, err)
	}
	session, err := render.NewSession(buf, a.cfg.Debounce)
	if err != nil {
		return err
	}
	a.Close()
	a.session = session
	a.pipeline = render.NewPipeline()
	a.current = session.Original()
	a.path = path
	fmt.Fprintf(a.out, "Opened %s\n%s\n", path, DescribeImage(path, a.current))
	return nil
}

// setPipeline re-renders p from the original and adopts it on success.
func (a *App) setPipeline(ctx context.Context, p render.Pipeline) error {
	gen := a.session.Submit(p)
	for {
		select {
		case r, ok := <-a.session.Results():
			if !ok {
				return fmt.Errorf("session closed")
			}
			if r.Generation != gen {
				continue
			}
			if r.Err != nil {
				return r.Err
			}
			a.pipeline = p
			a.current = r.Buffer
			raster.Logger().Debug("rendered", "steps", p.Len(), "elapsed", r.Elapsed)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run reads single-key commands until q or end of input.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Terminal Image Editor")
	a.usage()
	for {
		line, err := a.prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}
		key, rest := line[0], strings.TrimSpace(line[1:])
		switch key {
		case 'q':
			fmt.Fprintln(a.out, "Exiting...")
			return nil
		case 'h':
			a.usage()
			continue
		case 'o':
			a.report(a.open(rest))
			continue
		case 'u':
			a.report(a.checkUpdates())
			continue
		}
		if a.session == nil {
			fmt.Fprintln(a.out, "No image loaded. Press 'o' to open an image first, or provide an image path as the first argument.")
			continue
		}
		switch key {
		case '/':
			a.report(a.apply(ctx, rest))
		case 'w':
			a.report(a.mix(ctx, rest))
		case 'l':
			a.list()
		case 'z':
			if a.pipeline.Len() == 0 {
				fmt.Fprintln(a.out, "nothing to undo")
				continue
			}
			if a.report(a.setPipeline(ctx, a.pipeline.Undo())) {
				fmt.Fprintf(a.out, "Undone, %d steps remain\n", a.pipeline.Len())
			}
		case 'r':
			if a.report(a.setPipeline(ctx, render.NewPipeline())) {
				fmt.Fprintln(a.out, "Reset to original")
			}
		case 's':
			a.report(a.save(rest))
		case 'x':
			a.report(a.export(rest))
		default:
			// ignore other keys
		}
	}
}

// report prints err, if any, and reports whether the action succeeded.
func (a *App) report(err error) bool {
	if err != nil {
		fmt.Fprintf(a.errOut, "error: %v\n", err)
		return false
	}
	return true
}

func (a *App) open(path string) error {
	if path == "" {
		var err error
		if path, err = a.prompt("Enter path to image to open (leave empty to cancel): "); err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(a.out, "open cancelled")
			return nil
		}
	}
	return a.Open(path)
}

func (a *App) selectCommand() (raster.CommandSpec, error) {
	if a.pick != nil {
		if name, err := a.pick(raster.Commands); err == nil && name != "" {
			return FindCommand(raster.Commands, name)
		}
	}
	fmt.Fprintln(a.out, "Command selection:")
	for i, c := range raster.Commands {
		fmt.Fprintf(a.out, "  %d) %s - %s\n", i+1, c.Name, c.Description)
	}
	selection, err := a.prompt("Enter number or command name (leave empty to cancel): ")
	if err != nil {
		return raster.CommandSpec{}, err
	}
	return FindCommand(raster.Commands, selection)
}

func (a *App) apply(ctx context.Context, inline string) error {
	var (
		c   raster.CommandSpec
		raw []string
		err error
	)
	if inline != "" {
		fields := strings.Fields(inline)
		if c, err = FindCommand(raster.Commands, fields[0]); err != nil {
			return err
		}
		raw = fields[1:]
	} else {
		if c, err = a.selectCommand(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "\n"+Tooltip(c)+"\n")
		raw = make([]string, len(c.Args))
		for i, p := range c.Args {
			label := fmt.Sprintf("%s (%s): ", p.Name, p.Type)
			if p.Default != "" {
				label = fmt.Sprintf("%s (%s) [%s]: ", p.Name, p.Type, p.Default)
			}
			if raw[i], err = a.prompt(label); err != nil {
				return err
			}
		}
	}
	args, err := NormalizeArgs(c, raw)
	if err != nil {
		return fmt.Errorf("input validation error: %w", err)
	}
	step := render.CommandStep{Command: c.Name, Args: args}
	if err := a.setPipeline(ctx, a.pipeline.With(step)); err != nil {
		return fmt.Errorf("apply %s: %w", c.Name, err)
	}
	fmt.Fprintf(a.out, "Applied %s\n%s\n", step, DescribeImage(a.path, a.current))
	return nil
}

// mix replaces the last step with a weighted blend of its output over its
// input. inline may carry "weight [mode]".
func (a *App) mix(ctx context.Context, inline string) error {
	n := a.pipeline.Len()
	if n == 0 {
		return fmt.Errorf("no step to mix")
	}
	fields := strings.Fields(inline)
	if len(fields) == 0 {
		w, err := a.prompt("weight (0-1): ")
		if err != nil {
			return err
		}
		m, err := a.prompt("blend mode [normal]: ")
		if err != nil {
			return err
		}
		fields = []string{w}
		if m != "" {
			fields = append(fields, m)
		}
	}
	weight, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || weight < 0 || weight > 1 {
		return fmt.Errorf("weight must be a number in [0,1], got %q", fields[0])
	}
	mode := raster.BlendNormal
	if len(fields) > 1 {
		var ok bool
		if mode, ok = raster.ParseBlendMode(fields[1]); !ok {
			return fmt.Errorf("unknown blend mode %q", fields[1])
		}
	}
	last := a.pipeline.Steps()[n-1]
	if m, ok := last.(render.MixStep); ok {
		last = m.Inner
	}
	step := render.MixStep{Inner: last, Weight: weight, Mode: mode}
	if err := a.setPipeline(ctx, a.pipeline.Undo().With(step)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mixed %s at %v (%s)\n", last.Name(), weight, mode)
	return nil
}

func (a *App) list() {
	if a.pipeline.Len() == 0 {
		fmt.Fprintln(a.out, "no steps applied")
		return
	}
	for i, s := range a.pipeline.Steps() {
		label := s.Name()
		if st, ok := s.(fmt.Stringer); ok {
			label = st.String()
		}
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, label)
	}
}

func (a *App) save(path string) error {
	if path == "" {
		var err error
		if path, err = a.prompt("Enter output filename: "); err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(a.out, "no filename provided")
			return nil
		}
	}
	if err := SaveImage(path, a.current, a.cfg.JPEGQuality); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func (a *App) export(path string) error {
	if path == "" {
		path = strings.TrimSuffix(a.path, filepath.Ext(a.path)) + RawExt
	}
	if !isRawPath(path) {
		path += RawExt
	}
	if err := WriteRawFile(path, a.current); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	fmt.Fprintf(a.out, "Exported to %s\n", path)
	return nil
}

func (a *App) checkUpdates() error {
	if a.update != nil {
		return a.update()
	}
	return CheckForUpdates(a.cfg.UpdateRepo, a.prompt, a.out)
}

// RunCLI is the program entry point. args are the command-line arguments
// without the program name; an optional first argument is opened.
func RunCLI(ctx context.Context, args []string) error {
	cfg, err := LoadConfig(".env")
	if err != nil {
		return err
	}
	raster.SetLogger(cfg.NewLogger())

	app := NewApp(cfg, os.Stdin, os.Stdout, os.Stderr)
	app.pick = SelectCommandWithFzf
	defer app.Close()
	if len(args) > 0 {
		if err := app.Open(args[0]); err != nil {
			return err
		}
	}
	return app.Run(ctx)
}
