package gfxtest

import (
	"io/fs"

	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/shader"
)

// Option configures a UnitTestContext during creation.
//
// Example:
//
//	ctx := gfxtest.NewUnitTestContext(
//	    gfxtest.WithAPIs(device.FlagsOf(device.Vulkan, device.Null)),
//	    gfxtest.WithSearchPaths("kernels"),
//	)
type Option func(*options)

type options struct {
	global        *shader.GlobalSession
	globalDesc    shader.GlobalSessionDesc
	apis          device.APIFlags
	searchPaths   []string
	fsys          fs.FS
	snapshotDir   string
	snapshotScale int
}

func defaultOptions() options {
	return options{
		apis:          device.AllAPIs,
		snapshotScale: 1,
	}
}

// WithGlobalSession shares an existing compiler session instead of
// creating one. It takes precedence over WithGlobalSessionDesc.
func WithGlobalSession(g *shader.GlobalSession) Option {
	return func(o *options) {
		o.global = g
	}
}

// WithGlobalSessionDesc configures the compiler session the context creates.
func WithGlobalSessionDesc(desc shader.GlobalSessionDesc) Option {
	return func(o *options) {
		o.globalDesc = desc
	}
}

// WithAPIs sets the backends tests may create devices for.
func WithAPIs(apis device.APIFlags) Option {
	return func(o *options) {
		o.apis = apis
	}
}

// WithSearchPaths adds module search paths. They are tried before the
// default paths.
func WithSearchPaths(paths ...string) Option {
	return func(o *options) {
		o.searchPaths = append(o.searchPaths, paths...)
	}
}

// WithFS loads modules from fsys instead of the operating system.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithSnapshotDir enables writing mismatching textures as PNG files into
// dir.
func WithSnapshotDir(dir string) Option {
	return func(o *options) {
		o.snapshotDir = dir
	}
}

// WithSnapshotScale enlarges snapshots by an integer factor.
func WithSnapshotScale(scale int) Option {
	return func(o *options) {
		if scale > 0 {
			o.snapshotScale = scale
		}
	}
}
