// Package snapshot writes read-back textures to image files so failing
// texture comparisons can be inspected.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for texel formats that cannot be
// converted to an image.
var ErrUnsupportedFormat = errors.New("snapshot: unsupported texture format")

// ErrUnsupportedExtension is returned when the file extension names no
// known image encoder.
var ErrUnsupportedExtension = errors.New("snapshot: unsupported file extension")

// Layout describes how texels are laid out in a read-back blob.
type Layout struct {
	Width    int
	Height   int
	RowPitch int
	Format   gputypes.TextureFormat
}

// Image converts a blob laid out as described by l to an NRGBA image.
func Image(data []byte, l Layout) (*image.NRGBA, error) {
	var texel int
	switch l.Format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		texel = 4
	case gputypes.TextureFormatR8Unorm:
		texel = 1
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, l.Format)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("snapshot: invalid extent %dx%d", l.Width, l.Height)
	}
	if l.RowPitch < l.Width*texel {
		return nil, fmt.Errorf("snapshot: row pitch %d below row size %d", l.RowPitch, l.Width*texel)
	}
	if need := l.RowPitch*(l.Height-1) + l.Width*texel; len(data) < need {
		return nil, fmt.Errorf("snapshot: blob has %d bytes, need %d", len(data), need)
	}

	img := image.NewNRGBA(image.Rect(0, 0, l.Width, l.Height))
	for y := 0; y < l.Height; y++ {
		src := data[y*l.RowPitch:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < l.Width; x++ {
			d := dst[x*4 : x*4+4]
			switch l.Format {
			case gputypes.TextureFormatRGBA8Unorm:
				copy(d, src[x*4:x*4+4])
			case gputypes.TextureFormatBGRA8Unorm:
				s := src[x*4 : x*4+4]
				d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
			case gputypes.TextureFormatR8Unorm:
				v := src[x]
				d[0], d[1], d[2], d[3] = v, v, v, 0xff
			}
		}
	}
	return img, nil
}

// Scale enlarges img by an integer factor with nearest-neighbor sampling.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Encode writes img to w in the format named by ext (".png", ".bmp",
// ".tif" or ".tiff").
func Encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
}

// Write converts data to an image, enlarges it by scale and writes it to
// path. The encoder is chosen from the extension of path. Missing parent
// directories are created.
func Write(path string, data []byte, l Layout, scale int) error {
	img, err := Image(data, l)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path is chosen by the test configuration
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := Encode(f, filepath.Ext(path), Scale(img, scale)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
