// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gfxtest/shader"
	"github.com/gogpu/wgpu/hal"
)

// ProgramDesc describes a backend program to create.
type ProgramDesc struct {
	// Program is the composite program to compile.
	Program *shader.Program

	// Label is an optional debug label. Defaults to the module name.
	Label string
}

// Program is a backend program object: a composite program compiled for the
// device's shader target and loaded as a HAL shader module.
//
// Programs are reference counted. CreateProgram returns a program with one
// reference; the shader module is destroyed when the last reference is
// released.
type Program struct {
	device  *Device
	program *shader.Program
	label   string
	module  hal.ShaderModule
	code    *shader.Code
	refs    atomic.Int32
}

// CreateProgram compiles desc.Program for the device and creates its
// backend shader module. Errors wrap ErrProgramCreation.
func (d *Device) CreateProgram(desc ProgramDesc) (*Program, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	if desc.Program == nil {
		return nil, fmt.Errorf("%w: nil program", ErrProgramCreation)
	}
	label := desc.Label
	if label == "" {
		label = desc.Program.Module().Name()
	}

	target := d.ShaderTarget()
	code, err := desc.Program.Compile(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProgramCreation, label, err)
	}

	var source hal.ShaderSource
	switch target {
	case shader.TargetSPIRV:
		source.SPIRV = code.Words()
	default:
		source.WGSL = code.Source
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: create shader module: %w", ErrProgramCreation, label, err)
	}

	p := &Program{
		device:  d,
		program: desc.Program,
		label:   label,
		module:  module,
		code:    code,
	}
	p.refs.Store(1)
	slogger().Debug("device: program created",
		"label", label, "target", target.String(), "bytes", code.Size())
	return p, nil
}

// Label returns the program's debug label.
func (p *Program) Label() string { return p.label }

// Shader returns the composite program the backend program was built from.
func (p *Program) Shader() *shader.Program { return p.program }

// Layout returns the program's reflection data.
func (p *Program) Layout() *shader.ProgramLayout { return p.program.Layout() }

// Code returns the generated code handed to the backend.
func (p *Program) Code() *shader.Code { return p.code }

// RefCount returns the current reference count.
func (p *Program) RefCount() int32 { return p.refs.Load() }

// Retain adds a reference.
func (p *Program) Retain() *Program {
	p.refs.Add(1)
	return p
}

// Release drops a reference and destroys the shader module when none
// remain. Releasing more times than retained is a no-op.
func (p *Program) Release() {
	for {
		n := p.refs.Load()
		if n <= 0 {
			return
		}
		if p.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				p.destroy()
			}
			return
		}
	}
}

func (p *Program) destroy() {
	if p.module != nil && !p.device.destroyed.Load() {
		p.device.device.DestroyShaderModule(p.module)
	}
	p.module = nil
	slogger().Debug("device: program released", "label", p.label)
}

func (p *Program) shaderModule() (hal.ShaderModule, error) {
	if p.refs.Load() <= 0 || p.module == nil {
		return nil, fmt.Errorf("%w: %s", ErrReleased, p.label)
	}
	return p.module, nil
}
