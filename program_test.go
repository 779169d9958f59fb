package gfxtest

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/shader"
	"github.com/google/go-cmp/cmp"
)

var testContext = NewUnitTestContext(
	WithAPIs(device.FlagsOf(device.Null)),
	WithGlobalSessionDesc(shader.GlobalSessionDesc{SkipValidation: true}),
)

func nullDevice(t *testing.T) *device.Device {
	t.Helper()
	dev, err := device.Create(testContext.deviceDesc(device.Null, t.Name()))
	if err != nil {
		t.Fatalf("device.Create(Null): %v", err)
	}
	t.Cleanup(dev.Destroy)
	return dev
}

func TestLoadComputeProgram(t *testing.T) {
	dev := nullDevice(t)

	prog, layout, err := LoadComputeProgram(t, dev, "compute-simple", "computeMain")
	if err != nil {
		t.Fatalf("LoadComputeProgram: %v", err)
	}
	defer prog.Release()

	if prog.RefCount() != 1 {
		t.Errorf("RefCount() = %d, want 1", prog.RefCount())
	}
	want := &shader.ProgramLayout{
		EntryPoints: []shader.EntryPointLayout{
			{Name: "computeMain", Stage: shader.StageCompute, WorkgroupSize: [3]uint32{4, 1, 1}},
		},
		Bindings: []shader.Binding{
			{Name: "buffer", Group: 0, Binding: 0, Kind: shader.BindingStorageBuffer, TypeName: "array<f32, 4>", Size: 16},
		},
	}
	if diff := cmp.Diff(want, layout); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	if prog.Layout() != layout {
		t.Error("program layout and returned layout differ")
	}
}

func TestLoadGraphicsProgram(t *testing.T) {
	dev := nullDevice(t)

	prog, layout, err := LoadGraphicsProgram(t, dev, "graphics-simple", "vertexMain", "fragmentMain")
	if err != nil {
		t.Fatalf("LoadGraphicsProgram: %v", err)
	}
	defer prog.Release()

	if len(layout.EntryPoints) != 2 {
		t.Fatalf("entry points = %+v, want 2", layout.EntryPoints)
	}
	if prog.Shader().IsCompute() {
		t.Error("graphics program reports IsCompute")
	}
}

func TestLoadProgramErrors(t *testing.T) {
	dev := nullDevice(t)

	t.Run("missing module", func(t *testing.T) {
		r := &recorder{}
		_, _, err := LoadComputeProgram(r, dev, "does-not-exist", "main")
		if !errors.Is(err, shader.ErrModuleNotFound) {
			t.Errorf("err = %v, want ErrModuleNotFound", err)
		}
	})

	t.Run("compile error logs diagnostics", func(t *testing.T) {
		r := &recorder{}
		_, _, err := LoadComputeProgram(r, dev, "broken", "main")
		if !errors.Is(err, shader.ErrCompile) {
			t.Errorf("err = %v, want ErrCompile", err)
		}
		if len(r.logs) == 0 {
			t.Error("diagnostics were not logged")
		}
	})

	t.Run("warnings are logged on success", func(t *testing.T) {
		r := &recorder{}
		prog, _, err := LoadComputeProgram(r, dev, "compute-warning", "computeMain")
		if err != nil {
			t.Fatalf("LoadComputeProgram: %v", err)
		}
		defer prog.Release()
		if len(r.logs) == 0 || !strings.Contains(r.logs[0], "warning: unused variable 'unused'") {
			t.Errorf("logs = %q, want the unused variable warning", r.logs)
		}
		if r.failed() {
			t.Errorf("warnings reported as failures: %q", r.errors)
		}
	})

	t.Run("missing entry point", func(t *testing.T) {
		r := &recorder{}
		_, _, err := LoadComputeProgram(r, dev, "compute-simple", "nope")
		if !errors.Is(err, shader.ErrEntryPointNotFound) {
			t.Errorf("err = %v, want ErrEntryPointNotFound", err)
		}
	})

	t.Run("nil device", func(t *testing.T) {
		if _, _, err := LoadComputeProgram(&recorder{}, nil, "compute-simple", "computeMain"); err == nil {
			t.Error("expected error for nil device")
		}
	})
}

func TestLoadComputeProgramTwice(t *testing.T) {
	dev := nullDevice(t)

	first, firstLayout, err := LoadComputeProgram(t, dev, "compute-uniform", "computeMain")
	if err != nil {
		t.Fatal(err)
	}
	defer first.Release()
	second, secondLayout, err := LoadComputeProgram(t, dev, "compute-uniform", "computeMain")
	if err != nil {
		t.Fatal(err)
	}
	defer second.Release()

	if first == second {
		t.Error("loading twice returned the same program")
	}
	if diff := cmp.Diff(firstLayout, secondLayout); diff != "" {
		t.Errorf("layouts differ (-first +second):\n%s", diff)
	}

	first.Release()
	if second.RefCount() != 1 {
		t.Errorf("releasing one program changed the other: RefCount() = %d", second.RefCount())
	}
}
