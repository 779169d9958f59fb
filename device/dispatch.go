// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"

	"github.com/gogpu/gfxtest/shader"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BufferBinding binds a buffer to a resource variable of a program.
type BufferBinding struct {
	// Name is the variable name in the shader.
	Name string

	Buffer *Buffer

	// ReadOnly marks a storage buffer declared var<storage, read>.
	ReadOnly bool
}

// computeResources tracks the objects created for one dispatch.
type computeResources struct {
	bindLayouts []hal.BindGroupLayout
	bindGroups  []hal.BindGroup
	pipeLayout  hal.PipelineLayout
	pipeline    hal.ComputePipeline
}

func (r *computeResources) destroy(device hal.Device) {
	if r.pipeline != nil {
		device.DestroyComputePipeline(r.pipeline)
	}
	if r.pipeLayout != nil {
		device.DestroyPipelineLayout(r.pipeLayout)
	}
	for _, bg := range r.bindGroups {
		if bg != nil {
			device.DestroyBindGroup(bg)
		}
	}
	for _, bgl := range r.bindLayouts {
		if bgl != nil {
			device.DestroyBindGroupLayout(bgl)
		}
	}
}

// DispatchCompute runs entryPoint of p over groups workgroups and waits
// for completion.
//
// Bind group layouts are derived from the program's reflection. Every
// buffer variable of the program must be bound exactly once; texture and
// sampler variables are not supported.
func (d *Device) DispatchCompute(p *Program, entryPoint string, bindings []BufferBinding, groups [3]uint32) error {
	if err := d.checkAlive(); err != nil {
		return err
	}
	module, err := p.shaderModule()
	if err != nil {
		return err
	}
	ep := p.program.EntryPoint(shader.StageCompute)
	if ep == nil {
		return fmt.Errorf("%w: %s", ErrNotCompute, p.label)
	}
	if entryPoint == "" {
		entryPoint = ep.Name()
	}
	if entryPoint != ep.Name() {
		return fmt.Errorf("%w: %q is not linked into %s", shader.ErrEntryPointNotFound, entryPoint, p.label)
	}
	if name, ok := p.code.EntryPointNames[entryPoint]; ok && name != "" {
		entryPoint = name
	}

	layout := p.Layout()
	byName, err := matchBindings(layout, bindings)
	if err != nil {
		return err
	}

	res := &computeResources{}
	defer res.destroy(d.device)

	if err := d.createBindGroups(res, p.label, layout, byName); err != nil {
		return err
	}

	res.pipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_pipe_layout",
		BindGroupLayouts: res.bindLayouts,
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	res.pipeline, err = d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   p.label + "_pipeline",
		Layout:  res.pipeLayout,
		Compute: hal.ComputeState{Module: module, EntryPoint: entryPoint},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}

	encoder, err := d.newEncoder(p.label + "_dispatch")
	if err != nil {
		return err
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: p.label + "_pass"})
	pass.SetPipeline(res.pipeline)
	for i, bg := range res.bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil) //nolint:gosec // group count is small
	}
	pass.Dispatch(groups[0], groups[1], groups[2])
	pass.End()

	if err := d.submit(encoder); err != nil {
		return err
	}
	slogger().Debug("device: compute dispatched",
		"program", p.label, "entryPoint", entryPoint, "groups", groups)
	return nil
}

// matchBindings checks bindings against the layout and indexes them by
// variable name.
func matchBindings(layout *shader.ProgramLayout, bindings []BufferBinding) (map[string]BufferBinding, error) {
	byName := make(map[string]BufferBinding, len(bindings))
	for _, b := range bindings {
		rb, ok := layout.FindBinding(b.Name)
		if !ok {
			return nil, fmt.Errorf("%w: program has no variable %q", ErrInvalidBinding, b.Name)
		}
		if !rb.Kind.IsBuffer() {
			return nil, fmt.Errorf("%w: %q is a %s binding", ErrInvalidBinding, b.Name, rb.Kind)
		}
		if b.Buffer == nil || b.Buffer.buf == nil {
			return nil, fmt.Errorf("%w: %q has no buffer", ErrInvalidBinding, b.Name)
		}
		if _, dup := byName[b.Name]; dup {
			return nil, fmt.Errorf("%w: %q bound twice", ErrInvalidBinding, b.Name)
		}
		if rb.Size != 0 && b.Buffer.size < rb.Size {
			return nil, fmt.Errorf("%w: %q needs %d bytes, buffer has %d",
				ErrInvalidBinding, b.Name, rb.Size, b.Buffer.size)
		}
		byName[b.Name] = b
	}
	for _, rb := range layout.Bindings {
		if _, ok := byName[rb.Name]; !ok {
			if !rb.Kind.IsBuffer() {
				return nil, fmt.Errorf("%w: %q is a %s binding", ErrInvalidBinding, rb.Name, rb.Kind)
			}
			return nil, fmt.Errorf("%w: %q is not bound", ErrInvalidBinding, rb.Name)
		}
	}
	return byName, nil
}

// createBindGroups creates one layout and bind group per group index from
// 0 to the highest group used. Unused groups get empty layouts.
func (d *Device) createBindGroups(res *computeResources, label string, layout *shader.ProgramLayout, byName map[string]BufferBinding) error {
	groups := layout.Groups()
	if len(groups) == 0 {
		return nil
	}
	last := groups[len(groups)-1]

	for g := uint32(0); g <= last; g++ {
		var (
			layoutEntries []gputypes.BindGroupLayoutEntry
			groupEntries  []gputypes.BindGroupEntry
		)
		for _, rb := range layout.GroupBindings(g) {
			b := byName[rb.Name]
			layoutEntries = append(layoutEntries, gputypes.BindGroupLayoutEntry{
				Binding:    rb.Binding,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     bufferBindingLayout(rb.Kind, b.ReadOnly),
			})
			groupEntries = append(groupEntries, gputypes.BindGroupEntry{
				Binding:  rb.Binding,
				Resource: gputypes.BufferBinding{Buffer: b.Buffer.buf.NativeHandle(), Offset: 0, Size: b.Buffer.size},
			})
		}

		bgl, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_bind_layout_%d", label, g),
			Entries: layoutEntries,
		})
		if err != nil {
			return fmt.Errorf("create bind group layout %d: %w", g, err)
		}
		res.bindLayouts = append(res.bindLayouts, bgl)

		bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s_bind_%d", label, g),
			Layout:  bgl,
			Entries: groupEntries,
		})
		if err != nil {
			return fmt.Errorf("create bind group %d: %w", g, err)
		}
		res.bindGroups = append(res.bindGroups, bg)
	}
	return nil
}

func bufferBindingLayout(kind shader.BindingKind, readOnly bool) *gputypes.BufferBindingLayout {
	l := &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}
	switch {
	case kind == shader.BindingUniformBuffer:
		l.Type = gputypes.BufferBindingTypeUniform
	case readOnly:
		l.Type = gputypes.BufferBindingTypeReadOnlyStorage
	}
	return l
}
