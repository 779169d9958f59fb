// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"errors"
	"testing"

	"github.com/gogpu/gfxtest/shader"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// createNullDevice opens a device on the noop backend. It performs no GPU
// work, so tests only check structure, never readback contents.
func createNullDevice(t *testing.T) *Device {
	t.Helper()
	d, err := Create(Desc{
		API:           Null,
		GlobalSession: shader.NewGlobalSession(shader.GlobalSessionDesc{SkipValidation: true}),
		SearchPaths:   []string{"../testdata/shaders"},
		Label:         t.Name(),
	})
	if err != nil {
		t.Fatalf("Create(Null): %v", err)
	}
	t.Cleanup(d.Destroy)
	return d
}

func composeProgram(t *testing.T, d *Device, module string, entries ...string) *shader.Program {
	t.Helper()
	s := d.ShaderSession()
	m, diag, err := s.LoadModule(module)
	if err != nil {
		t.Fatalf("LoadModule(%q): %v\n%s", module, err, diag)
	}
	eps := make([]*shader.EntryPoint, 0, len(entries))
	for _, name := range entries {
		ep, err := m.FindEntryPointByName(name)
		if err != nil {
			t.Fatal(err)
		}
		eps = append(eps, ep)
	}
	p, diag, err := s.CreateCompositeProgram(m, eps...)
	if err != nil {
		t.Fatalf("CreateCompositeProgram: %v\n%s", err, diag)
	}
	return p
}

func TestRegistry(t *testing.T) {
	if !IsRegistered(Null) {
		t.Fatal("Null backend is not registered")
	}
	if IsRegistered(CUDA) {
		t.Error("CUDA should not have a backend")
	}

	Register(CUDA, func(*hal.InstanceDescriptor) (hal.Instance, error) {
		return nil, errors.New("no driver")
	})
	if !IsRegistered(CUDA) {
		t.Error("Register(CUDA) had no effect")
	}
	found := false
	for _, api := range Available() {
		if api == CUDA {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, want CUDA listed", Available())
	}

	_, err := Create(Desc{API: CUDA})
	if !errors.Is(err, ErrDeviceCreation) {
		t.Errorf("Create(CUDA) err = %v, want ErrDeviceCreation", err)
	}

	Unregister(CUDA)
	if IsRegistered(CUDA) {
		t.Error("Unregister(CUDA) had no effect")
	}
}

func TestCreateUnsupported(t *testing.T) {
	for _, api := range []API{CUDA, API(99)} {
		if _, err := Create(Desc{API: api}); !errors.Is(err, ErrUnsupportedAPI) {
			t.Errorf("Create(%v) err = %v, want ErrUnsupportedAPI", api, err)
		}
	}
}

func TestCreateBackendNotLinked(t *testing.T) {
	t.Cleanup(func() { Unregister(CUDA) })
	Register(CUDA, func(*hal.InstanceDescriptor) (hal.Instance, error) {
		return nil, errBackendNotLinked(CUDA)
	})

	_, err := Create(Desc{API: CUDA})
	if !errors.Is(err, ErrDeviceCreation) {
		t.Errorf("Create(CUDA) err = %v, want ErrDeviceCreation", err)
	}
	if !errors.Is(err, ErrUnsupportedAPI) {
		t.Errorf("Create(CUDA) err = %v, want ErrUnsupportedAPI in the chain", err)
	}
}

func TestCreateNull(t *testing.T) {
	d := createNullDevice(t)
	if d.API() != Null {
		t.Errorf("API() = %v, want Null", d.API())
	}
	if d.ShaderSession() == nil {
		t.Fatal("ShaderSession() is nil")
	}
	if d.ShaderTarget() != shader.TargetWGSL {
		t.Errorf("ShaderTarget() = %v, want wgsl", d.ShaderTarget())
	}
	if _, ok := d.HalDevice().(hal.Device); !ok {
		t.Errorf("HalDevice() = %T, want hal.Device", d.HalDevice())
	}
	if _, ok := d.HalQueue().(hal.Queue); !ok {
		t.Errorf("HalQueue() = %T, want hal.Queue", d.HalQueue())
	}
}

func TestDestroyIdempotent(t *testing.T) {
	d := createNullDevice(t)
	d.Destroy()
	d.Destroy()
	if _, err := d.CreateBuffer(BufferDesc{Size: 16}, nil); !errors.Is(err, ErrDestroyed) {
		t.Errorf("CreateBuffer after Destroy err = %v, want ErrDestroyed", err)
	}
}

func TestProviderContract(t *testing.T) {
	d := createNullDevice(t)

	var provider gpucontext.DeviceProvider = d
	if provider.Device() == nil || provider.Queue() == nil || provider.Adapter() == nil {
		t.Fatal("provider returned nil components")
	}
	if provider.SurfaceFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat() = %v", provider.SurfaceFormat())
	}

	shared, err := FromProvider(d, Desc{API: Null, SearchPaths: []string{"../testdata/shaders"}})
	if err != nil {
		t.Fatalf("FromProvider: %v", err)
	}
	if shared.HalDevice() != d.HalDevice() {
		t.Error("shared device does not reuse the HAL device")
	}
	shared.Destroy()
	if _, err := d.CreateBuffer(BufferDesc{Size: 16}, nil); err != nil {
		t.Errorf("destroying a shared device closed its owner: %v", err)
	}

	if _, err := FromProvider(struct{}{}, Desc{}); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("FromProvider(struct{}) err = %v, want ErrInvalidProvider", err)
	}
}

func TestCreateProgramRefCount(t *testing.T) {
	d := createNullDevice(t)
	sp := composeProgram(t, d, "compute-simple", "computeMain")

	p, err := d.CreateProgram(ProgramDesc{Program: sp})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if p.Label() != "compute-simple" {
		t.Errorf("Label() = %q", p.Label())
	}
	if p.RefCount() != 1 {
		t.Fatalf("RefCount() = %d, want 1", p.RefCount())
	}
	if p.Code().Target != shader.TargetWGSL {
		t.Errorf("Code().Target = %v, want wgsl", p.Code().Target)
	}

	p.Retain()
	p.Release()
	if p.RefCount() != 1 {
		t.Errorf("RefCount() after Retain/Release = %d, want 1", p.RefCount())
	}
	p.Release()
	if p.RefCount() != 0 {
		t.Errorf("RefCount() after final Release = %d, want 0", p.RefCount())
	}
	p.Release()
	if p.RefCount() != 0 {
		t.Errorf("over-release changed RefCount to %d", p.RefCount())
	}

	err = d.DispatchCompute(p, "", []BufferBinding{}, [3]uint32{1, 1, 1})
	if !errors.Is(err, ErrReleased) {
		t.Errorf("DispatchCompute on released program err = %v, want ErrReleased", err)
	}
}

func TestCreateProgramNil(t *testing.T) {
	d := createNullDevice(t)
	if _, err := d.CreateProgram(ProgramDesc{}); !errors.Is(err, ErrProgramCreation) {
		t.Errorf("err = %v, want ErrProgramCreation", err)
	}
}

func TestCreateBuffer(t *testing.T) {
	d := createNullDevice(t)

	b, err := d.CreateBuffer(BufferDesc{Label: "odd"}, []byte{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	defer b.Destroy()
	if b.Size() != 8 {
		t.Errorf("Size() = %d, want 8 (rounded up)", b.Size())
	}
	if b.Usage()&gputypes.BufferUsageCopyDst == 0 {
		t.Error("buffer with initial data lacks CopyDst usage")
	}

	if _, err := d.CreateBuffer(BufferDesc{}, nil); err == nil {
		t.Error("zero-size buffer should fail")
	}
	if _, err := d.CreateBuffer(BufferDesc{Size: 2}, make([]byte, 8)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("oversized data err = %v, want ErrOutOfRange", err)
	}
}

func TestReadBufferResourceRange(t *testing.T) {
	d := createNullDevice(t)
	b, err := d.CreateBuffer(BufferDesc{Size: 16}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Destroy()

	if _, err := d.ReadBufferResource(b, 8, 16); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
	if _, err := d.ReadBufferResource(b, 20, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
	blob, err := d.ReadBufferResource(b, 4, 0)
	if err != nil || blob.Len() != 0 {
		t.Errorf("empty read = %v, %v", blob, err)
	}
	if _, err := d.ReadBufferResource(nil, 0, 4); !errors.Is(err, ErrReadback) {
		t.Errorf("nil buffer err = %v, want ErrReadback", err)
	}
}

func TestReadBufferResourceLength(t *testing.T) {
	d := createNullDevice(t)
	b, err := d.CreateBuffer(BufferDesc{}, Float32Bytes([]float32{1, 2, 3, 4}))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Destroy()

	blob, err := d.ReadBufferResource(b, 2, 9)
	if err != nil {
		t.Skipf("noop backend cannot complete submissions: %v", err)
	}
	if blob.Len() != 9 {
		t.Errorf("Len() = %d, want 9", blob.Len())
	}
}

func TestCreateTexture(t *testing.T) {
	d := createNullDevice(t)

	tex, err := d.CreateTexture(TextureDesc{Label: "t", Width: 4, Height: 2}, make([]byte, 4*2*4))
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer tex.Destroy()
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", tex.Format())
	}
	if tex.PixelSize() != 4 {
		t.Errorf("PixelSize() = %d, want 4", tex.PixelSize())
	}

	if _, err := d.CreateTexture(TextureDesc{Width: 4, Height: 2}, make([]byte, 7)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("short data err = %v, want ErrOutOfRange", err)
	}
	if _, err := d.CreateTexture(TextureDesc{Width: 0, Height: 2}, nil); err == nil {
		t.Error("zero extent should fail")
	}
	if _, err := d.CreateTexture(TextureDesc{Width: 1, Height: 1, Format: gputypes.TextureFormatDepth24PlusStencil8}, nil); err == nil {
		t.Error("depth format should be rejected")
	}
}

func TestReadTextureResourcePitch(t *testing.T) {
	d := createNullDevice(t)
	tex, err := d.CreateTexture(TextureDesc{Width: 3, Height: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer tex.Destroy()

	blob, rowPitch, pixelSize, err := d.ReadTextureResource(tex, ResourceStateShaderResource)
	if err != nil {
		t.Skipf("noop backend cannot complete submissions: %v", err)
	}
	if rowPitch != 256 {
		t.Errorf("rowPitch = %d, want 256", rowPitch)
	}
	if pixelSize != 4 {
		t.Errorf("pixelSize = %d, want 4", pixelSize)
	}
	if blob.Len() != 512 {
		t.Errorf("Len() = %d, want 512", blob.Len())
	}
}

func TestDispatchComputeBindingErrors(t *testing.T) {
	d := createNullDevice(t)
	p, err := d.CreateProgram(ProgramDesc{Program: composeProgram(t, d, "compute-uniform", "computeMain")})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release()

	small, err := d.CreateBuffer(BufferDesc{Size: 4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer small.Destroy()
	buf, err := d.CreateBuffer(BufferDesc{Size: 16}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Destroy()

	tests := []struct {
		name     string
		bindings []BufferBinding
	}{
		{"missing", []BufferBinding{{Name: "params", Buffer: buf}}},
		{"unknown", []BufferBinding{{Name: "nope", Buffer: buf}}},
		{"too small", []BufferBinding{
			{Name: "params", Buffer: small},
			{Name: "input", Buffer: buf, ReadOnly: true},
			{Name: "output", Buffer: buf},
		}},
		{"duplicate", []BufferBinding{
			{Name: "params", Buffer: buf},
			{Name: "params", Buffer: buf},
		}},
		{"nil buffer", []BufferBinding{{Name: "params"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.DispatchCompute(p, "computeMain", tt.bindings, [3]uint32{1, 1, 1})
			if !errors.Is(err, ErrInvalidBinding) {
				t.Errorf("err = %v, want ErrInvalidBinding", err)
			}
		})
	}

	err = d.DispatchCompute(p, "otherMain", nil, [3]uint32{1, 1, 1})
	if !errors.Is(err, shader.ErrEntryPointNotFound) {
		t.Errorf("wrong entry point err = %v, want ErrEntryPointNotFound", err)
	}
}

func TestDispatchComputeNotCompute(t *testing.T) {
	d := createNullDevice(t)
	p, err := d.CreateProgram(ProgramDesc{Program: composeProgram(t, d, "graphics-simple", "vertexMain", "fragmentMain")})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release()
	if err := d.DispatchCompute(p, "", nil, [3]uint32{1, 1, 1}); !errors.Is(err, ErrNotCompute) {
		t.Errorf("err = %v, want ErrNotCompute", err)
	}
}

func TestDispatchCompute(t *testing.T) {
	d := createNullDevice(t)
	p, err := d.CreateProgram(ProgramDesc{Program: composeProgram(t, d, "compute-simple", "computeMain")})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release()

	buf, err := d.CreateBuffer(BufferDesc{Label: "buffer"}, make([]byte, 16))
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Destroy()

	err = d.DispatchCompute(p, "", []BufferBinding{{Name: "buffer", Buffer: buf}}, [3]uint32{1, 1, 1})
	if err != nil {
		t.Skipf("noop backend cannot complete submissions: %v", err)
	}
}
