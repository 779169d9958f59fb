// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package device is the graphics device layer used by gfxtest.
//
// A Device wraps a HAL device and queue from github.com/gogpu/wgpu/hal and
// owns a shader session for loading modules. It turns composite programs
// into backend shader modules, creates buffers and textures, reads
// device-resident resources back to host memory and dispatches compute work.
//
// Backends register themselves per API from init functions:
//
//	API     HAL backend     build constraint
//	Vulkan  hal/vulkan      !novulkan
//	Null    hal/noop        (always)
//
// Every other API is known to the API enum but has no registered backend,
// so Create returns ErrUnsupportedAPI for it.
//
// Basic usage:
//
//	dev, err := device.Create(device.Desc{
//	    API:           device.Vulkan,
//	    GlobalSession: shader.NewGlobalSession(shader.GlobalSessionDesc{}),
//	    SearchPaths:   []string{"testdata/shaders"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer dev.Destroy()
//
// Device implements gpucontext.DeviceProvider and exposes HalDevice and
// HalQueue, so it can be handed to any consumer of the gogpu ecosystem that
// accepts a shared device.
package device
