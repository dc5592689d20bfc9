package cli

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Fepozopo/rasterfx/pkg/raster"
	"github.com/klauspost/compress/zstd"
)

// RawExt is the extension of the lossless raw buffer format: a 12-byte
// header ("RFX1", big-endian uint32 width and height) followed by the
// zstd-compressed RGBA samples.
const RawExt = ".rfx"

var rawMagic = [4]byte{'R', 'F', 'X', '1'}

// maxRawSamples bounds the allocation made when reading an untrusted header.
const maxRawSamples = 1 << 30

// ErrBadRaw is returned for files that are not valid raw buffers.
var ErrBadRaw = errors.New("malformed raw buffer")

// WriteRaw encodes buf to w.
func WriteRaw(w io.Writer, buf *raster.Buffer) error {
	if err := buf.Valid(); err != nil {
		return err
	}
	var hdr [12]byte
	copy(hdr[:4], rawMagic[:])
	binary.BigEndian.PutUint32(hdr[4:8], uint32(buf.Width))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(buf.Height))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if _, err := enc.Write(buf.Pix); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadRaw decodes a buffer written by WriteRaw.
func ReadRaw(r io.Reader) (*raster.Buffer, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", ErrBadRaw)
	}
	if [4]byte(hdr[:4]) != rawMagic {
		return nil, fmt.Errorf("bad magic %q: %w", hdr[:4], ErrBadRaw)
	}
	w := int(binary.BigEndian.Uint32(hdr[4:8]))
	h := int(binary.BigEndian.Uint32(hdr[8:12]))
	if w < 0 || h < 0 || (w > 0 && h > maxRawSamples/4/w) {
		return nil, fmt.Errorf("size %dx%d: %w", w, h, ErrBadRaw)
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	pix := make([]uint8, w*h*4)
	if _, err := io.ReadFull(dec, pix); err != nil {
		return nil, fmt.Errorf("read samples: %v: %w", err, ErrBadRaw)
	}
	return raster.NewBufferFrom(w, h, pix)
}

// WriteRawFile writes buf to path in raw format.
func WriteRawFile(path string, buf *raster.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := WriteRaw(bw, buf); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRawFile reads a raw buffer from path.
func ReadRawFile(path string) (*raster.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRaw(bufio.NewReader(f))
}
