// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// The Null API runs on the HAL noop backend. It accepts every call and
// performs no GPU work, so readback contents are unspecified.
func init() {
	Register(Null, func(desc *hal.InstanceDescriptor) (hal.Instance, error) {
		return noop.API{}.CreateInstance(desc)
	})
}
