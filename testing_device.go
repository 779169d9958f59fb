package gfxtest

import (
	"github.com/gogpu/gfxtest/device"
)

// CreateTestingDevice creates a device for api or skips the test.
//
// The test is skipped when api is not enabled in ctx, when no backend is
// registered for it in this build, or when the backend cannot create a
// device on this machine. When r supports Cleanup, the device is destroyed
// at the end of the test. A nil return means the test was skipped.
func CreateTestingDevice(r Reporter, ctx *UnitTestContext, api device.API) *device.Device {
	r.Helper()
	if ctx == nil {
		r.Fatalf("gfxtest: nil UnitTestContext")
		return nil
	}
	if !ctx.EnabledAPIs.Has(api) {
		r.Skipf("%v API not enabled (%s=%s)", api, EnvAPIs, ctx.EnabledAPIs)
		return nil
	}
	if !device.IsRegistered(api) {
		r.Skipf("%v API not available in this build", api)
		return nil
	}

	dev, err := device.Create(ctx.deviceDesc(api, testName(r)))
	if err != nil {
		Logger().Info("gfxtest: skipping backend", "api", api.String(), "err", err)
		r.Skipf("could not create %v device: %v", api, err)
		return nil
	}
	if c, ok := r.(cleanupRegistrar); ok {
		c.Cleanup(dev.Destroy)
	}
	return dev
}

// testName returns the test name when r is a *testing.T or *testing.B.
func testName(r Reporter) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
