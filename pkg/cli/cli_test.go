package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fepozopo/rasterfx/pkg/raster"
	"github.com/Fepozopo/rasterfx/pkg/render"
)

func newTestApp(t *testing.T, script string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Debounce = 0
	var out, errOut bytes.Buffer
	app := NewApp(cfg, strings.NewReader(script), &out, &errOut)
	app.update = func() error { return nil }
	t.Cleanup(app.Close)
	return app, &out, &errOut
}

func writeSolidPNG(t *testing.T, dir string, c raster.RGBA) string {
	t.Helper()
	b := raster.NewBuffer(6, 4)
	b.Fill(c)
	path := filepath.Join(dir, "in.png")
	if err := SaveImage(path, b, 92); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	return path
}

func TestAppRequiresImage(t *testing.T) {
	app, out, _ := newTestApp(t, "/ negate\nq\n")
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "No image loaded") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestAppApplyUndoReset(t *testing.T) {
	dir := t.TempDir()
	in := writeSolidPNG(t, dir, raster.RGBA{R: 10, G: 20, B: 30, A: 255})
	saved := filepath.Join(dir, "out.png")
	script := strings.Join([]string{
		"/ negate",
		"/ posterize 2",
		"l",
		"z",
		"s " + saved,
		"/ gaussianBlur -4",
		"r",
		"q",
	}, "\n") + "\n"
	app, out, errOut := newTestApp(t, script)
	if err := app.Open(in); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	o := out.String()
	for _, want := range []string{"Applied negate", "Applied posterize 2", "  2) posterize 2", "Undone, 1 steps remain", "Saved to " + saved, "Reset to original"} {
		if !strings.Contains(o, want) {
			t.Fatalf("missing %q in output:\n%s", want, o)
		}
	}
	if !strings.Contains(errOut.String(), "< min") {
		t.Fatalf("invalid radius not reported:\n%s", errOut.String())
	}
	if app.Pipeline().Len() != 0 {
		t.Fatalf("pipeline has %d steps after reset", app.Pipeline().Len())
	}

	got, err := LoadImage(saved)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if px := got.At(2, 2); px != (raster.RGBA{R: 245, G: 235, B: 225, A: 255}) {
		t.Fatalf("saved pixel = %+v, want negated", px)
	}
}

func TestAppInteractiveCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeSolidPNG(t, dir, raster.RGBA{R: 100, G: 100, B: 100, A: 255})
	// select by name, then answer radius and accept the default sigma
	app, out, errOut := newTestApp(t, "/\ngaussianBlur\n2\n\nq\n")
	if err := app.Open(in); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if errOut.Len() != 0 {
		t.Fatalf("errors:\n%s", errOut.String())
	}
	steps := app.Pipeline().Steps()
	if len(steps) != 1 {
		t.Fatalf("steps = %d", len(steps))
	}
	cs, ok := steps[0].(render.CommandStep)
	if !ok || cs.Command != "gaussianBlur" || strings.Join(cs.Args, ",") != "2" {
		t.Fatalf("step = %#v", steps[0])
	}
	if !strings.Contains(out.String(), "gaussianBlur <radius> [sigma]") {
		t.Fatalf("tooltip not shown:\n%s", out.String())
	}
	if px := app.Current().At(3, 2); px != (raster.RGBA{R: 100, G: 100, B: 100, A: 255}) {
		t.Fatalf("blurred solid changed: %+v", px)
	}
}

func TestAppMixAndExport(t *testing.T) {
	dir := t.TempDir()
	in := writeSolidPNG(t, dir, raster.RGBA{R: 0, G: 0, B: 0, A: 255})
	raw := filepath.Join(dir, "frame")
	app, out, errOut := newTestApp(t, "/ negate\nw 0.5\nw 1 multiply\nw 2\nx "+raw+"\nq\n")
	if err := app.Open(in); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Mixed negate at 0.5 (normal)") {
		t.Fatalf("output:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "weight must be") {
		t.Fatalf("bad weight not reported:\n%s", errOut.String())
	}
	steps := app.Pipeline().Steps()
	if len(steps) != 1 {
		t.Fatalf("mix should replace the last step, have %d", len(steps))
	}
	m, ok := steps[0].(render.MixStep)
	if !ok || m.Weight != 1 || m.Mode != raster.BlendMultiply || m.Inner.Name() != "negate" {
		t.Fatalf("step = %#v", steps[0])
	}
	// multiply of black with white is black
	if px := app.Current().At(0, 0); px.R != 0 {
		t.Fatalf("multiply mix = %+v", px)
	}

	got, err := ReadRawFile(raw + RawExt)
	if err != nil {
		t.Fatalf("ReadRawFile: %v", err)
	}
	if !got.Equal(app.Current()) {
		t.Fatalf("exported raw differs from current")
	}
}

func TestAppOpenErrors(t *testing.T) {
	app, _, errOut := newTestApp(t, "o /definitely/not/here.png\nq\n")
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(errOut.String(), "failed to read image") {
		t.Fatalf("errors:\n%s", errOut.String())
	}
}

func TestAppEOFEndsRun(t *testing.T) {
	app, _, _ := newTestApp(t, "h")
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
