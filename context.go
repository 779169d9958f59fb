package gfxtest

import (
	"io/fs"
	"os"

	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/shader"
)

// EnvAPIs names the environment variable that overrides the enabled APIs
// with a comma-separated list such as "vulkan,null".
const EnvAPIs = "GFXTEST_APIS"

// DefaultSearchPaths are appended to every context's search paths.
var DefaultSearchPaths = []string{"", "testdata/shaders", "../testdata/shaders"}

// UnitTestContext is state shared by the tests of one package: the
// compiler session, the enabled backends and where modules are found.
// Create it once, typically as a package variable or in TestMain.
type UnitTestContext struct {
	// GlobalSession is shared by every device created for the context.
	GlobalSession *shader.GlobalSession

	// EnabledAPIs lists the backends CreateTestingDevice may use.
	EnabledAPIs device.APIFlags

	// SearchPaths are tried before DefaultSearchPaths.
	SearchPaths []string

	// FS, when set, replaces the operating system file system.
	FS fs.FS

	// SnapshotDir, when set, receives images of textures that fail
	// CompareTextureResult.
	SnapshotDir string

	// SnapshotScale enlarges snapshots by an integer factor.
	SnapshotScale int
}

// NewUnitTestContext creates a context. Options are applied over the
// defaults (every API enabled, default search paths); a non-empty
// GFXTEST_APIS environment variable then replaces the enabled APIs.
func NewUnitTestContext(opts ...Option) *UnitTestContext {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	global := o.global
	if global == nil {
		global = shader.NewGlobalSession(o.globalDesc)
	}
	ctx := &UnitTestContext{
		GlobalSession: global,
		EnabledAPIs:   o.apis,
		SearchPaths:   o.searchPaths,
		FS:            o.fsys,
		SnapshotDir:   o.snapshotDir,
		SnapshotScale: o.snapshotScale,
	}

	if env := os.Getenv(EnvAPIs); env != "" {
		apis, err := device.ParseAPIFlags(env)
		if err != nil {
			Logger().Warn("gfxtest: ignoring invalid "+EnvAPIs, "value", env, "err", err)
		} else {
			ctx.EnabledAPIs = apis
		}
	}
	return ctx
}

// searchPaths returns the context's paths followed by the defaults.
func (c *UnitTestContext) searchPaths() []string {
	paths := make([]string, 0, len(c.SearchPaths)+len(DefaultSearchPaths))
	paths = append(paths, c.SearchPaths...)
	return append(paths, DefaultSearchPaths...)
}

// deviceDesc returns the device description for api.
func (c *UnitTestContext) deviceDesc(api device.API, label string) device.Desc {
	return device.Desc{
		API:           api,
		GlobalSession: c.GlobalSession,
		SearchPaths:   c.searchPaths(),
		FS:            c.FS,
		Label:         label,
	}
}
