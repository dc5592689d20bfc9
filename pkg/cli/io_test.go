package cli

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

// exifOrientationSegment builds an APP1 segment holding a little-endian
// TIFF header with a single Orientation tag.
func exifOrientationSegment(orientation uint16) []byte {
	payload := &bytes.Buffer{}
	payload.WriteString("Exif\x00\x00")
	payload.WriteString("II")
	_ = binary.Write(payload, binary.LittleEndian, uint16(0x2A))
	_ = binary.Write(payload, binary.LittleEndian, uint32(8))
	_ = binary.Write(payload, binary.LittleEndian, uint16(1))
	_ = binary.Write(payload, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(payload, binary.LittleEndian, uint16(3))
	_ = binary.Write(payload, binary.LittleEndian, uint32(1))
	_ = binary.Write(payload, binary.LittleEndian, orientation)
	_ = binary.Write(payload, binary.LittleEndian, uint16(0))
	_ = binary.Write(payload, binary.LittleEndian, uint32(0))

	seg := &bytes.Buffer{}
	seg.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(seg, binary.BigEndian, uint16(payload.Len()+2))
	seg.Write(payload.Bytes())
	return seg.Bytes()
}

func TestLoadImageAppliesOrientation(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 128, 255})
		}
	}
	var enc bytes.Buffer
	if err := jpeg.Encode(&enc, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	data := enc.Bytes()
	withExif := append(append(append([]byte{}, data[:2]...), exifOrientationSegment(6)...), data[2:]...)
	path := filepath.Join(t.TempDir(), "rotated.jpg")
	if err := os.WriteFile(path, withExif, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if buf.Width != 8 || buf.Height != 16 {
		t.Fatalf("size %dx%d, want 8x16 after orientation 6", buf.Width, buf.Height)
	}
}

func TestSaveLoadPNG(t *testing.T) {
	src := gradient(12, 9)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SaveImage(path, src, 92); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	got, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if !got.Equal(src) {
		t.Fatalf("png round trip is not lossless")
	}
}

func TestSaveJPEGAndUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	src := gradient(20, 20)
	if err := SaveImage(filepath.Join(dir, "out.jpg"), src, 80); err != nil {
		t.Fatalf("SaveImage jpg: %v", err)
	}
	got, err := LoadImage(filepath.Join(dir, "out.jpg"))
	if err != nil {
		t.Fatalf("LoadImage jpg: %v", err)
	}
	if got.Width != 20 || got.Height != 20 {
		t.Fatalf("jpg size %dx%d", got.Width, got.Height)
	}
	if err := SaveImage(filepath.Join(dir, "out.xyz"), src, 80); err == nil {
		t.Fatalf("unknown extension accepted")
	}
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("missing file loaded")
	}
}

func TestDescribeImage(t *testing.T) {
	got := DescribeImage("a/b/photo.jpeg", gradient(3, 2))
	if got != "Format: JPEG, Width: 3, Height: 2" {
		t.Fatalf("got %q", got)
	}
}
