package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Fepozopo/rasterfx/pkg/raster"
	"github.com/disintegration/imaging"

	// extra decoders for image.Decode
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage reads path into a buffer. Raw .rfx files are read directly;
// everything else goes through the registered image decoders with EXIF
// orientation applied.
func LoadImage(path string) (*raster.Buffer, error) {
	if isRawPath(path) {
		return ReadRawFile(path)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return raster.FromImage(img), nil
}

// SaveImage writes buf to path, choosing the encoder from the extension.
// quality applies to JPEG output only.
func SaveImage(path string, buf *raster.Buffer, quality int) error {
	if err := buf.Valid(); err != nil {
		return err
	}
	if isRawPath(path) {
		return WriteRawFile(path, buf)
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return imaging.Save(buf.ToNRGBA(), path, imaging.JPEGQuality(quality))
}

// DescribeImage returns a short info line for buf.
func DescribeImage(path string, buf *raster.Buffer) string {
	format := strings.TrimPrefix(strings.ToUpper(filepath.Ext(path)), ".")
	if format == "" {
		format = "unknown"
	}
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", format, buf.Width, buf.Height)
}

func isRawPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), RawExt)
}
