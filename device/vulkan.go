// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !novulkan

package device

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	Register(Vulkan, func(desc *hal.InstanceDescriptor) (hal.Instance, error) {
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, errBackendNotLinked(Vulkan)
		}
		return backend.CreateInstance(desc)
	})
}
