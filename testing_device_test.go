package gfxtest

import (
	"testing"

	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/shader"
)

func TestCreateTestingDevice(t *testing.T) {
	r := &recorder{}
	dev := CreateTestingDevice(r, testContext, device.Null)
	if dev == nil {
		t.Fatalf("CreateTestingDevice(Null) = nil; skips=%q fatals=%q", r.skips, r.fatals)
	}
	if dev.API() != device.Null {
		t.Errorf("API() = %v, want null", dev.API())
	}
	if len(r.cleanups) != 1 {
		t.Fatalf("cleanups = %d, want 1", len(r.cleanups))
	}
	r.runCleanups()
	if _, err := dev.CreateBuffer(device.BufferDesc{Size: 4}, nil); err == nil {
		t.Error("device still usable after cleanup")
	}
}

func TestCreateTestingDeviceSkips(t *testing.T) {
	tests := []struct {
		name string
		ctx  *UnitTestContext
		api  device.API
	}{
		{"not enabled", &UnitTestContext{EnabledAPIs: device.FlagsOf(device.Null)}, device.Vulkan},
		{"no backend", &UnitTestContext{EnabledAPIs: device.AllAPIs}, device.CUDA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			if dev := CreateTestingDevice(r, tt.ctx, tt.api); dev != nil {
				dev.Destroy()
				t.Fatal("expected nil device")
			}
			if len(r.skips) != 1 || r.failed() {
				t.Errorf("skips=%q errors=%q fatals=%q, want one skip", r.skips, r.errors, r.fatals)
			}
		})
	}
}

func TestCreateTestingDeviceNilContext(t *testing.T) {
	r := &recorder{}
	if CreateTestingDevice(r, nil, device.Null) != nil {
		t.Error("expected nil device")
	}
	if len(r.fatals) != 1 {
		t.Errorf("fatals = %q, want 1", r.fatals)
	}
}

func TestRenderDocWithoutLibrary(t *testing.T) {
	if InitializeRenderDoc() {
		t.Skip("RenderDoc is attached")
	}
	// Must be safe to call when capture is unavailable.
	RenderDocBeginFrame()
	RenderDocEndFrame()
}

func TestBufferRoundTripAllAPIs(t *testing.T) {
	ctx := NewUnitTestContext(WithGlobalSessionDesc(shader.GlobalSessionDesc{SkipValidation: true}))
	values := []float32{1, -2.5, 3.25, 1e6, 0, 7}
	data := device.Float32Bytes(values)

	for _, api := range device.APIs() {
		t.Run(api.String(), func(t *testing.T) {
			dev := CreateTestingDevice(t, ctx, api)
			if dev == nil {
				t.Fatal("CreateTestingDevice returned nil without skipping")
			}
			if api == device.Null {
				t.Skip("null backend performs no GPU work; readback contents are unspecified")
			}

			buf, err := dev.CreateBuffer(device.BufferDesc{Label: "round-trip"}, data)
			if err != nil {
				t.Fatalf("CreateBuffer: %v", err)
			}
			defer buf.Destroy()

			CompareComputeResult(t, dev, buf, data)
			CompareComputeResultFuzzy(t, dev, buf, values)
		})
	}
}
