// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row pitch alignment required for texture to
// buffer copies.
const copyPitchAlignment = 256

// ReadBufferResource copies size bytes starting at offset out of buf into
// host memory. Errors wrap ErrReadback or ErrOutOfRange.
func (d *Device) ReadBufferResource(buf *Buffer, offset, size uint64) (Blob, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	if buf == nil || buf.buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrReadback)
	}
	if offset > buf.size || size > buf.size-offset {
		return nil, fmt.Errorf("%w: read [%d, %d) of %q (size %d)",
			ErrOutOfRange, offset, offset+size, buf.label, buf.size)
	}
	if size == 0 {
		return Blob{}, nil
	}

	// Copies must be 4-byte aligned; read the enclosing aligned range.
	start := offset &^ 3
	end := alignUp(offset+size, 4)
	if end > buf.size {
		end = buf.size
	}
	span := end - start

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback_staging",
		Size:  alignUp(span, 4),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create staging buffer: %w", ErrReadback, err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.newEncoder("readback_buffer")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadback, err)
	}
	encoder.CopyBufferToBuffer(buf.buf, staging, []hal.BufferCopy{
		{SrcOffset: start, DstOffset: 0, Size: span},
	})
	if err := d.submit(encoder); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadback, err)
	}

	data := make([]byte, span)
	if err := d.queue.ReadBuffer(staging, 0, data); err != nil {
		return nil, fmt.Errorf("%w: read staging buffer: %w", ErrReadback, err)
	}
	lead := offset - start
	return Blob(data[lead : lead+size]), nil
}

// ReadTextureResource copies mip level 0 of tex into host memory.
//
// The texture is transitioned from state to copy source and back. The blob
// keeps the device row layout: rows are rowPitch bytes apart, rowPitch is a
// multiple of 256, and each texel is pixelSize bytes.
func (d *Device) ReadTextureResource(tex *Texture, state ResourceState) (Blob, uint64, uint64, error) {
	if err := d.checkAlive(); err != nil {
		return nil, 0, 0, err
	}
	if tex == nil || tex.tex == nil {
		return nil, 0, 0, fmt.Errorf("%w: nil texture", ErrReadback)
	}

	w, h := tex.desc.Width, tex.desc.Height
	texel := tex.PixelSize()
	bytesPerRow := w * texel
	alignedBytesPerRow := alignUp(bytesPerRow, copyPitchAlignment)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback_texture_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: create staging buffer: %w", ErrReadback, err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.newEncoder("readback_texture")
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrReadback, err)
	}

	from := state.textureUsage()
	if from != gputypes.TextureUsageCopySrc {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: tex.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: from,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
	}

	encoder.CopyTextureToBuffer(tex.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	// Undefined has no usage to return to.
	if from != gputypes.TextureUsageCopySrc && from != 0 {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: tex.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: from,
			},
		}})
	}

	if err := d.submit(encoder); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrReadback, err)
	}

	data := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(staging, 0, data); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: read staging buffer: %w", ErrReadback, err)
	}
	slogger().Debug("device: texture read back",
		"width", w, "height", h, "rowPitch", alignedBytesPerRow, "state", state.String())
	return Blob(data), uint64(alignedBytesPerRow), uint64(texel), nil
}
