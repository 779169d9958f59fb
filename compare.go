package gfxtest

import (
	"bytes"
	"math"
	"path/filepath"
	"regexp"

	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/internal/snapshot"
)

// FuzzyTolerance is the largest absolute difference CompareFloatsFuzzy
// accepts between a result and its expected value.
const FuzzyTolerance = 0.01

// ResourceReader reads device resources back to host memory.
// *device.Device implements it.
type ResourceReader interface {
	ReadBufferResource(buf *device.Buffer, offset, size uint64) (device.Blob, error)
	ReadTextureResource(tex *device.Texture, state device.ResourceState) (device.Blob, uint64, uint64, error)
}

var _ ResourceReader = (*device.Device)(nil)

// CompareComputeResult reads len(expected) bytes from the start of buf and
// asserts they equal expected.
func CompareComputeResult(r Reporter, dev ResourceReader, buf *device.Buffer, expected []byte) {
	r.Helper()
	blob, err := dev.ReadBufferResource(buf, 0, uint64(len(expected)))
	if err != nil {
		r.Fatalf("read back buffer: %v", err)
		return
	}
	if blob.Len() != len(expected) {
		r.Errorf("buffer size: got %d bytes, want %d", blob.Len(), len(expected))
		return
	}
	if !bytes.Equal(blob, expected) {
		i := firstDifference(blob, expected)
		r.Errorf("buffer content differs at byte %d: got %#02x, want %#02x", i, blob[i], expected[i])
	}
}

// CompareComputeResultFuzzy reads len(expected) float32 values from the
// start of buf and compares them with CompareFloatsFuzzy.
func CompareComputeResultFuzzy(r Reporter, dev ResourceReader, buf *device.Buffer, expected []float32) {
	r.Helper()
	size := len(expected) * 4
	blob, err := dev.ReadBufferResource(buf, 0, uint64(size))
	if err != nil {
		r.Fatalf("read back buffer: %v", err)
		return
	}
	if blob.Len() != size {
		r.Errorf("buffer size: got %d bytes, want %d", blob.Len(), size)
		return
	}
	CompareFloatsFuzzy(r, blob.Float32s(), expected)
}

// CompareFloatsFuzzy asserts, element by element, that result is within
// FuzzyTolerance of expected. Each mismatching element is reported.
func CompareFloatsFuzzy(r Reporter, result, expected []float32) {
	r.Helper()
	n := len(expected)
	if len(result) != len(expected) {
		r.Errorf("float count: got %d, want %d", len(result), len(expected))
		n = min(len(result), len(expected))
	}
	for i := 0; i < n; i++ {
		// NaN never compares within tolerance.
		if !(math.Abs(float64(result[i]-expected[i])) <= FuzzyTolerance) {
			r.Errorf("element %d: got %v, want %v (tolerance %v)", i, result[i], expected[i], FuzzyTolerance)
		}
	}
}

// CompareOption configures texture comparisons.
type CompareOption func(*compareOptions)

type compareOptions struct {
	snapshotPath  string
	snapshotScale int
}

// WithSnapshot writes the read-back texture to path when any row differs.
// The image format follows the extension: .png, .bmp, .tif or .tiff.
func WithSnapshot(path string, scale int) CompareOption {
	return func(o *compareOptions) {
		o.snapshotPath = path
		o.snapshotScale = scale
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Snapshot returns a WithSnapshot option writing name.png into the
// context's snapshot directory, or a no-op option when the context has
// none.
func (c *UnitTestContext) Snapshot(name string) CompareOption {
	if c == nil || c.SnapshotDir == "" {
		return func(*compareOptions) {}
	}
	file := unsafeFileChars.ReplaceAllString(name, "_") + ".png"
	return WithSnapshot(filepath.Join(c.SnapshotDir, file), c.SnapshotScale)
}

// CompareTextureResult reads tex back and compares rowCount rows against
// expected, which holds tightly packed rows of expectedRowPitch bytes.
// Each row is one assertion; the device row pitch may be larger than
// expectedRowPitch.
func CompareTextureResult(r Reporter, dev ResourceReader, tex *device.Texture, state device.ResourceState,
	expected []float32, expectedRowPitch, rowCount int, opts ...CompareOption) {
	r.Helper()
	CompareTextureResultBytes(r, dev, tex, state, device.Float32Bytes(expected), expectedRowPitch, rowCount, opts...)
}

// CompareTextureResultBytes is CompareTextureResult with expected data
// given as bytes, convenient for 8-bit formats.
func CompareTextureResultBytes(r Reporter, dev ResourceReader, tex *device.Texture, state device.ResourceState,
	expected []byte, expectedRowPitch, rowCount int, opts ...CompareOption) {
	r.Helper()
	var o compareOptions
	for _, opt := range opts {
		opt(&o)
	}

	blob, rowPitch, pixelSize, err := dev.ReadTextureResource(tex, state)
	if err != nil {
		r.Fatalf("read back texture: %v", err)
		return
	}
	if len(expected) < expectedRowPitch*rowCount {
		r.Errorf("expected data has %d bytes, need %d for %d rows", len(expected), expectedRowPitch*rowCount, rowCount)
		return
	}

	mismatch := false
	pitch := int(rowPitch) //nolint:gosec // pitch of a test texture fits int
	for row := 0; row < rowCount; row++ {
		start := row * pitch
		if start+expectedRowPitch > blob.Len() {
			r.Errorf("row %d: texture data ends at byte %d", row, blob.Len())
			mismatch = true
			break
		}
		got := blob[start : start+expectedRowPitch]
		want := expected[row*expectedRowPitch : (row+1)*expectedRowPitch]
		if !bytes.Equal(got, want) {
			i := firstDifference(got, want)
			r.Errorf("row %d differs at pixel %d (byte %d): got %v, want %v",
				row, i/int(max(pixelSize, 1)), i, got[i], want[i]) //nolint:gosec // pixel size is small
			mismatch = true
		}
	}

	if mismatch && o.snapshotPath != "" && tex != nil {
		writeSnapshot(r, o, blob, tex, pitch)
	}
}

func writeSnapshot(r Reporter, o compareOptions, blob device.Blob, tex *device.Texture, pitch int) {
	r.Helper()
	l := snapshot.Layout{
		Width:    int(tex.Width()),
		Height:   int(tex.Height()),
		RowPitch: pitch,
		Format:   tex.Format(),
	}
	if err := snapshot.Write(o.snapshotPath, blob, l, o.snapshotScale); err != nil {
		Logger().Warn("gfxtest: snapshot not written", "path", o.snapshotPath, "err", err)
		r.Logf("snapshot not written: %v", err)
		return
	}
	r.Logf("texture snapshot written to %s", o.snapshotPath)
}

// firstDifference returns the index of the first differing byte of two
// slices of equal length, or len(a) if they are equal.
func firstDifference(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return len(a)
}
