package snapshot

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// twoByTwo is a 2x2 RGBA8 texture with a 12-byte row pitch.
func twoByTwo() ([]byte, Layout) {
	data := []byte{
		255, 0, 0, 255, 0, 255, 0, 255, 9, 9, 9, 9,
		0, 0, 255, 255, 255, 255, 255, 128, 9, 9, 9, 9,
	}
	return data, Layout{Width: 2, Height: 2, RowPitch: 12, Format: gputypes.TextureFormatRGBA8Unorm}
}

func TestImageRGBA(t *testing.T) {
	data, l := twoByTwo()
	img, err := Image(data, l)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(1, 1); got.R != 255 || got.A != 128 {
		t.Errorf("pixel (1,1) = %v", got)
	}
	if got := img.NRGBAAt(0, 1); got.B != 255 || got.R != 0 {
		t.Errorf("pixel (0,1) = %v", got)
	}
}

func TestImageBGRA(t *testing.T) {
	data := []byte{10, 20, 30, 40}
	img, err := Image(data, Layout{Width: 1, Height: 1, RowPitch: 4, Format: gputypes.TextureFormatBGRA8Unorm})
	if err != nil {
		t.Fatal(err)
	}
	got := img.NRGBAAt(0, 0)
	if got.R != 30 || got.G != 20 || got.B != 10 || got.A != 40 {
		t.Errorf("BGRA swizzle = %v", got)
	}
}

func TestImageErrors(t *testing.T) {
	data, l := twoByTwo()

	bad := l
	bad.Format = gputypes.TextureFormatDepth24PlusStencil8
	if _, err := Image(data, bad); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}

	bad = l
	bad.RowPitch = 4
	if _, err := Image(data, bad); err == nil {
		t.Error("short row pitch accepted")
	}

	if _, err := Image(data[:10], l); err == nil {
		t.Error("short blob accepted")
	}
}

func TestScale(t *testing.T) {
	data, l := twoByTwo()
	img, err := Image(data, l)
	if err != nil {
		t.Fatal(err)
	}
	scaled := Scale(img, 4)
	if b := scaled.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("scaled bounds = %v, want 8x8", b)
	}
	if Scale(img, 1) != img {
		t.Error("Scale(1) should return the input")
	}
}

func TestWriteFormats(t *testing.T) {
	data, l := twoByTwo()
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.bmp", "out.tiff"} {
		path := filepath.Join(dir, "nested", name)
		if err := Write(path, data, l, 2); err != nil {
			t.Fatalf("Write(%s): %v", name, err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var decodeErr error
		switch filepath.Ext(name) {
		case ".png":
			_, decodeErr = png.Decode(bytes.NewReader(raw))
		case ".bmp":
			_, decodeErr = bmp.Decode(bytes.NewReader(raw))
		case ".tiff":
			_, decodeErr = tiff.Decode(bytes.NewReader(raw))
		}
		if decodeErr != nil {
			t.Errorf("decode %s: %v", name, decodeErr)
		}
	}

	err := Write(filepath.Join(dir, "out.gif"), data, l, 1)
	if !errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("err = %v, want ErrUnsupportedExtension", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out.gif")); !os.IsNotExist(statErr) {
		t.Error("failed write left a file behind")
	}
}
