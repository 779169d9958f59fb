// Package gfxtest is a harness for GPU shader unit tests.
//
// # Overview
//
// gfxtest glues three services together for test code: the naga shader
// compiler (package shader), the wgpu HAL device layer (package device) and
// a test reporter such as *testing.T. A test typically:
//
//  1. creates a device for one backend API, skipping when it is unavailable
//  2. loads a program from a WGSL module
//  3. creates buffers or textures and dispatches work
//  4. reads results back and compares them with expected data
//
// # Quick Start
//
//	var ctx = gfxtest.NewUnitTestContext()
//
//	func TestFill(t *testing.T) {
//	    dev := gfxtest.CreateTestingDevice(t, ctx, device.Vulkan)
//	    defer dev.Destroy()
//
//	    prog, _, err := gfxtest.LoadComputeProgram(t, dev, "compute-simple", "computeMain")
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer prog.Release()
//
//	    buf, _ := dev.CreateBuffer(device.BufferDesc{Size: 16}, nil)
//	    defer buf.Destroy()
//	    _ = dev.DispatchCompute(prog, "computeMain",
//	        []device.BufferBinding{{Name: "buffer", Buffer: buf}}, [3]uint32{1, 1, 1})
//
//	    gfxtest.CompareComputeResultFuzzy(t, dev, buf, []float32{1, 3, 5, 7})
//	}
//
// # Skips and failures
//
// Unavailable backends never fail a test: CreateTestingDevice marks it
// skipped. Compilation and program creation failures are returned as
// errors wrapping the shader and device sentinel errors. Comparison
// mismatches are reported with one Errorf per row or element, and a failed
// readback aborts the test with Fatalf.
//
// # Configuration
//
// NewUnitTestContext takes functional options. LoadConfig reads the same
// settings from a YAML file, and the GFXTEST_APIS environment variable
// restricts the enabled backends, e.g. GFXTEST_APIS=vulkan,null.
//
// # Frame capture
//
// InitializeRenderDoc, RenderDocBeginFrame and RenderDocEndFrame bracket
// work with RenderDoc captures when built with the renderdoc tag; see
// package capture.
package gfxtest
