// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/gogpu/gfxtest/shader"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// fenceTimeout bounds every blocking wait on the GPU.
const fenceTimeout = 5 * time.Second

// Desc describes a device to create.
type Desc struct {
	// API selects the backend.
	API API

	// GlobalSession is shared compiler state. A default global session is
	// created when nil.
	GlobalSession *shader.GlobalSession

	// SearchPaths are the directories the device's shader session loads
	// modules from.
	SearchPaths []string

	// FS replaces the operating system file system for module loading.
	FS fs.FS

	// Label is an optional debug label.
	Label string
}

// Device is an open graphics device with its shader session.
//
// Devices are not safe for concurrent use; test harness calls are
// sequential.
type Device struct {
	api         API
	label       string
	adapterName string

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	owned    bool

	session   *shader.Session
	destroyed atomic.Bool
}

// Create opens a device for desc.API.
//
// It returns an error wrapping ErrUnsupportedAPI when no backend is
// registered for the API, and ErrDeviceCreation when the backend fails.
func Create(desc Desc) (*Device, error) {
	if !desc.API.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAPI, desc.API)
	}
	factory, ok := lookup(desc.API)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAPI, desc.API)
	}

	instance, err := factory(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: %v: create instance: %w", ErrDeviceCreation, desc.API, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %v: %w", ErrDeviceCreation, desc.API, ErrNoAdapter)
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %v: open device: %w", ErrDeviceCreation, desc.API, err)
	}

	d := &Device{
		api:         desc.API,
		label:       desc.Label,
		adapterName: selected.Info.Name,
		instance:    instance,
		device:      openDev.Device,
		queue:       openDev.Queue,
		owned:       true,
		session:     newSession(desc),
	}
	slogger().Info("device: created", "api", desc.API.String(), "adapter", d.adapterName, "label", desc.Label)
	return d, nil
}

// selectAdapter prefers a discrete GPU, then an integrated one, then the
// first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			return &adapters[i]
		}
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

func newSession(desc Desc) *shader.Session {
	global := desc.GlobalSession
	if global == nil {
		global = shader.NewGlobalSession(shader.GlobalSessionDesc{})
	}
	return global.CreateSession(shader.SessionDesc{
		SearchPaths: desc.SearchPaths,
		FS:          desc.FS,
	})
}

// API returns the backend API the device was created for.
func (d *Device) API() API { return d.api }

// Label returns the device's debug label.
func (d *Device) Label() string { return d.label }

// AdapterName returns the name reported by the selected adapter.
func (d *Device) AdapterName() string { return d.adapterName }

// ShaderSession returns the compiler session bound to the device.
func (d *Device) ShaderSession() *shader.Session { return d.session }

// ShaderTarget returns the code generation target handed to the backend.
func (d *Device) ShaderTarget() shader.Target {
	if d.api == Vulkan {
		return shader.TargetSPIRV
	}
	return shader.TargetWGSL
}

// Destroy releases the device. Devices obtained from FromProvider leave the
// shared HAL device open. Destroy is idempotent.
func (d *Device) Destroy() {
	if d == nil || !d.destroyed.CompareAndSwap(false, true) {
		return
	}
	if d.owned {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
	slogger().Debug("device: destroyed", "api", d.api.String(), "label", d.label)
}

func (d *Device) checkAlive() error {
	if d.destroyed.Load() {
		return ErrDestroyed
	}
	return nil
}

// submit ends encoding, submits the command buffer and blocks until the GPU
// signals completion or fenceTimeout elapses.
func (d *Device) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %v", ErrTimeout, fenceTimeout)
	}
	return nil
}

// newEncoder creates a command encoder and begins recording.
func (d *Device) newEncoder(label string) (hal.CommandEncoder, error) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	return encoder, nil
}
