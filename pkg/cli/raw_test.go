package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Fepozopo/rasterfx/pkg/raster"
)

func gradient(w, h int) *raster.Buffer {
	b := raster.NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, raster.RGBA{R: uint8(x * 255 / max(w-1, 1)), G: uint8(y * 255 / max(h-1, 1)), B: 128, A: 255})
		}
	}
	return b
}

func TestRawRoundTrip(t *testing.T) {
	src := gradient(33, 17)
	src.Set(0, 0, raster.RGBA{R: 1, G: 2, B: 3, A: 4})
	var buf bytes.Buffer
	if err := WriteRaw(&buf, src); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("RFX1")) {
		t.Fatalf("missing magic")
	}
	got, err := ReadRaw(&buf)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if !got.Equal(src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRawEmptyBuffer(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRaw(&buf, raster.NewBuffer(0, 5)); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	got, err := ReadRaw(&buf)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if got.Width != 0 || got.Height != 5 {
		t.Fatalf("size %dx%d", got.Width, got.Height)
	}
}

func TestRawRejectsMalformed(t *testing.T) {
	var good bytes.Buffer
	if err := WriteRaw(&good, gradient(8, 8)); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	huge := []byte("RFX1\xff\xff\xff\xff\xff\xff\xff\xff")
	cases := map[string][]byte{
		"short":     []byte("RFX"),
		"magic":     append([]byte("PNG1"), good.Bytes()[4:]...),
		"huge":      huge,
		"truncated": good.Bytes()[:16],
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadRaw(bytes.NewReader(data))
			if err == nil {
				t.Fatalf("accepted malformed input")
			}
			if name != "truncated" && !errors.Is(err, ErrBadRaw) {
				t.Fatalf("err = %v, want ErrBadRaw", err)
			}
		})
	}
}

func TestRawFileRoundTrip(t *testing.T) {
	src := gradient(10, 6)
	path := filepath.Join(t.TempDir(), "frame.rfx")
	if err := WriteRawFile(path, src); err != nil {
		t.Fatalf("WriteRawFile: %v", err)
	}
	got, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if !got.Equal(src) {
		t.Fatalf("file round trip mismatch")
	}
}
