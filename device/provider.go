// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var _ gpucontext.DeviceProvider = (*Device)(nil)

// gpuDevice adapts a Device to gpucontext.Device.
type gpuDevice struct{ d *Device }

// Poll is a no-op: every submission made by Device already waits on its
// fence.
func (gpuDevice) Poll(bool) {}

func (g gpuDevice) Destroy() { g.d.Destroy() }

type gpuQueue struct{}

type gpuAdapter struct{}

// Device implements gpucontext.DeviceProvider.
func (d *Device) Device() gpucontext.Device { return gpuDevice{d: d} }

// Queue implements gpucontext.DeviceProvider.
func (d *Device) Queue() gpucontext.Queue { return gpuQueue{} }

// Adapter implements gpucontext.DeviceProvider.
func (d *Device) Adapter() gpucontext.Adapter { return gpuAdapter{} }

// SurfaceFormat implements gpucontext.DeviceProvider. Test devices render
// offscreen, so this is the format render targets default to.
func (d *Device) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// HalDevice returns the underlying hal.Device.
func (d *Device) HalDevice() any { return d.device }

// HalQueue returns the underlying hal.Queue.
func (d *Device) HalQueue() any { return d.queue }

// FromProvider wraps a device owned by another component, such as a gogpu
// application. The provider must expose HalDevice() and HalQueue()
// returning hal.Device and hal.Queue. desc.API labels the device and
// selects the shader target; Destroy leaves the shared device open.
func FromProvider(provider any, desc Desc) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrInvalidProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrInvalidProvider, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrInvalidProvider, hp.HalQueue())
	}

	d := &Device{
		api:         desc.API,
		label:       desc.Label,
		adapterName: "shared",
		device:      device,
		queue:       queue,
		session:     newSession(desc),
	}
	slogger().Info("device: using shared device", "api", desc.API.String(), "label", desc.Label)
	return d, nil
}
