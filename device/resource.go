// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ResourceState is the usage a texture is in when handed to the device.
type ResourceState uint8

const (
	ResourceStateUndefined ResourceState = iota
	ResourceStateShaderResource
	ResourceStateRenderTarget
	ResourceStateCopySource
	ResourceStateCopyDestination
)

// String returns a short name for the state.
func (s ResourceState) String() string {
	switch s {
	case ResourceStateUndefined:
		return "undefined"
	case ResourceStateShaderResource:
		return "shader_resource"
	case ResourceStateRenderTarget:
		return "render_target"
	case ResourceStateCopySource:
		return "copy_source"
	case ResourceStateCopyDestination:
		return "copy_destination"
	default:
		return fmt.Sprintf("ResourceState(%d)", s)
	}
}

// textureUsage maps a state to the texture usage used for barriers.
func (s ResourceState) textureUsage() gputypes.TextureUsage {
	switch s {
	case ResourceStateShaderResource:
		return gputypes.TextureUsageTextureBinding
	case ResourceStateRenderTarget:
		return gputypes.TextureUsageRenderAttachment
	case ResourceStateCopySource:
		return gputypes.TextureUsageCopySrc
	case ResourceStateCopyDestination:
		return gputypes.TextureUsageCopyDst
	default:
		return 0
	}
}

// Blob is host memory returned by a readback. The caller owns it.
type Blob []byte

// Len returns the size of the blob in bytes.
func (b Blob) Len() int { return len(b) }

// Float32s decodes the blob as little-endian float32 values. Trailing
// bytes that do not form a full value are ignored.
func (b Blob) Float32s() []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

// Uint32s decodes the blob as little-endian uint32 values.
func (b Blob) Uint32s() []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}

// Float32Bytes encodes values as little-endian bytes.
func Float32Bytes(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// Uint32Bytes encodes values as little-endian bytes.
func Uint32Bytes(values []uint32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// BufferDesc describes a buffer to create.
type BufferDesc struct {
	Label string

	// Size in bytes. Defaults to the length of the initial data. Sizes are
	// rounded up to a multiple of 4.
	Size uint64

	// Usage defaults to storage | copy source | copy destination.
	Usage gputypes.BufferUsage
}

// Buffer is a device buffer.
type Buffer struct {
	device *Device
	buf    hal.Buffer
	size   uint64
	usage  gputypes.BufferUsage
	label  string
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Usage returns the buffer usage flags.
func (b *Buffer) Usage() gputypes.BufferUsage { return b.usage }

// Label returns the buffer's debug label.
func (b *Buffer) Label() string { return b.label }

// Raw returns the underlying HAL buffer.
func (b *Buffer) Raw() hal.Buffer { return b.buf }

// Destroy releases the buffer.
func (b *Buffer) Destroy() {
	if b.buf == nil {
		return
	}
	if !b.device.destroyed.Load() {
		b.device.device.DestroyBuffer(b.buf)
	}
	b.buf = nil
}

// CreateBuffer creates a buffer and uploads data to its start when data
// is non-empty.
func (d *Device) CreateBuffer(desc BufferDesc, data []byte) (*Buffer, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	size := desc.Size
	if size == 0 {
		size = uint64(len(data))
	}
	if size == 0 {
		return nil, fmt.Errorf("device: create buffer %q: zero size", desc.Label)
	}
	if uint64(len(data)) > size {
		return nil, fmt.Errorf("device: create buffer %q: %d bytes of data exceed size %d: %w",
			desc.Label, len(data), size, ErrOutOfRange)
	}
	size = alignUp(size, 4)

	usage := desc.Usage
	if usage == 0 {
		usage = gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst
	}
	if len(data) > 0 {
		usage |= gputypes.BufferUsageCopyDst
	}

	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("device: create buffer %q: %w", desc.Label, err)
	}
	if len(data) > 0 {
		upload := data
		if uint64(len(upload))%4 != 0 {
			upload = make([]byte, alignUp(uint64(len(data)), 4))
			copy(upload, data)
		}
		d.queue.WriteBuffer(buf, 0, upload)
	}
	return &Buffer{device: d, buf: buf, size: size, usage: usage, label: desc.Label}, nil
}

// TextureDesc describes a 2D texture to create.
type TextureDesc struct {
	Label  string
	Width  uint32
	Height uint32

	// Format defaults to RGBA8Unorm.
	Format gputypes.TextureFormat

	// Usage defaults to copy source | copy destination | texture binding.
	Usage gputypes.TextureUsage
}

// Texture is a device texture.
type Texture struct {
	device *Device
	tex    hal.Texture
	desc   TextureDesc
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.desc.Width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.desc.Height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.desc.Format }

// PixelSize returns the size of one texel in bytes.
func (t *Texture) PixelSize() uint32 { return pixelSize(t.desc.Format) }

// Raw returns the underlying HAL texture.
func (t *Texture) Raw() hal.Texture { return t.tex }

// Destroy releases the texture.
func (t *Texture) Destroy() {
	if t.tex == nil {
		return
	}
	if !t.device.destroyed.Load() {
		t.device.device.DestroyTexture(t.tex)
	}
	t.tex = nil
}

// CreateTexture creates a single-mip 2D texture and uploads tightly packed
// data when non-empty.
func (d *Device) CreateTexture(desc TextureDesc, data []byte) (*Texture, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("device: create texture %q: zero extent %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = gputypes.TextureFormatRGBA8Unorm
	}
	if pixelSize(desc.Format) == 0 {
		return nil, fmt.Errorf("device: create texture %q: unsupported format %v", desc.Label, desc.Format)
	}
	if desc.Usage == 0 {
		desc.Usage = gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding
	}
	rowBytes := desc.Width * pixelSize(desc.Format)
	if len(data) > 0 {
		if uint64(len(data)) != uint64(rowBytes)*uint64(desc.Height) {
			return nil, fmt.Errorf("device: create texture %q: got %d bytes, want %d: %w",
				desc.Label, len(data), uint64(rowBytes)*uint64(desc.Height), ErrOutOfRange)
		}
		desc.Usage |= gputypes.TextureUsageCopyDst
	}

	size := hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("device: create texture %q: %w", desc.Label, err)
	}
	if len(data) > 0 {
		d.queue.WriteTexture(
			&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
			data,
			&hal.ImageDataLayout{Offset: 0, BytesPerRow: rowBytes, RowsPerImage: desc.Height},
			&size,
		)
	}
	return &Texture{device: d, tex: tex, desc: desc}, nil
}

// pixelSize returns the texel size of the formats the harness reads back,
// or 0 for unsupported formats.
func pixelSize(f gputypes.TextureFormat) uint32 {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	default:
		return 0
	}
}

func alignUp[T uint32 | uint64](v, align T) T {
	return (v + align - 1) &^ (align - 1)
}
