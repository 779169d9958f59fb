// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import "errors"

// Common device errors.
var (
	// ErrUnsupportedAPI is returned when no backend is registered for the
	// requested API.
	ErrUnsupportedAPI = errors.New("device: unsupported API")

	// ErrDeviceCreation is returned when a registered backend fails to
	// create an instance, find an adapter or open a device.
	ErrDeviceCreation = errors.New("device: creation failed")

	// ErrNoAdapter is returned when an instance exposes no adapters.
	ErrNoAdapter = errors.New("device: no adapters found")

	// ErrProgramCreation is returned when a composite program cannot be
	// turned into a backend shader module.
	ErrProgramCreation = errors.New("device: program creation failed")

	// ErrReadback is returned when a resource cannot be read back.
	ErrReadback = errors.New("device: readback failed")

	// ErrOutOfRange is returned when a readback range exceeds the resource.
	ErrOutOfRange = errors.New("device: range out of bounds")

	// ErrTimeout is returned when the GPU does not signal a fence in time.
	ErrTimeout = errors.New("device: GPU wait timed out")

	// ErrReleased is returned when a released program is used.
	ErrReleased = errors.New("device: program released")

	// ErrDestroyed is returned when a destroyed device is used.
	ErrDestroyed = errors.New("device: device destroyed")

	// ErrInvalidBinding is returned when DispatchCompute bindings do not
	// match the program layout.
	ErrInvalidBinding = errors.New("device: invalid binding")

	// ErrNotCompute is returned when DispatchCompute is given a program
	// without a compute entry point.
	ErrNotCompute = errors.New("device: program has no compute entry point")

	// ErrInvalidProvider is returned by FromProvider when the provider does
	// not expose HAL types.
	ErrInvalidProvider = errors.New("device: provider does not expose HAL device and queue")
)
