package shader

import (
	"fmt"
	"sort"

	"github.com/gogpu/naga/ir"
)

// BindingKind classifies a resource binding.
type BindingKind uint8

const (
	BindingUnknown BindingKind = iota
	BindingUniformBuffer
	BindingStorageBuffer
	BindingTexture
	BindingStorageTexture
	BindingSampler
	BindingComparisonSampler
)

// String returns a short name for the binding kind.
func (k BindingKind) String() string {
	switch k {
	case BindingUniformBuffer:
		return "uniform"
	case BindingStorageBuffer:
		return "storage"
	case BindingTexture:
		return "texture"
	case BindingStorageTexture:
		return "storage_texture"
	case BindingSampler:
		return "sampler"
	case BindingComparisonSampler:
		return "sampler_comparison"
	default:
		return "unknown"
	}
}

// IsBuffer reports whether the binding is backed by a buffer.
func (k BindingKind) IsBuffer() bool {
	return k == BindingUniformBuffer || k == BindingStorageBuffer
}

// Binding describes one resource bound to a program.
type Binding struct {
	Name     string
	Group    uint32
	Binding  uint32
	Kind     BindingKind
	TypeName string
	// Size is the byte size of the bound type, or 0 when it is not
	// statically known (runtime-sized arrays, textures, samplers).
	Size uint64
}

// EntryPointLayout describes a linked entry point.
type EntryPointLayout struct {
	Name          string
	Stage         Stage
	WorkgroupSize [3]uint32
}

// ProgramLayout is the reflection of a composite program.
//
// Bindings are sorted by group, then binding index.
type ProgramLayout struct {
	EntryPoints []EntryPointLayout
	Bindings    []Binding
}

// FindBinding returns the binding with the given variable name.
func (l *ProgramLayout) FindBinding(name string) (Binding, bool) {
	for _, b := range l.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// FindEntryPoint returns the entry point layout with the given name.
func (l *ProgramLayout) FindEntryPoint(name string) (EntryPointLayout, bool) {
	for _, ep := range l.EntryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return EntryPointLayout{}, false
}

// Groups returns the distinct bind group indices in ascending order.
func (l *ProgramLayout) Groups() []uint32 {
	var groups []uint32
	for _, b := range l.Bindings {
		if len(groups) == 0 || groups[len(groups)-1] != b.Group {
			groups = append(groups, b.Group)
		}
	}
	return groups
}

// GroupBindings returns the bindings of one bind group.
func (l *ProgramLayout) GroupBindings(group uint32) []Binding {
	var out []Binding
	for _, b := range l.Bindings {
		if b.Group == group {
			out = append(out, b)
		}
	}
	return out
}

func reflectLayout(m *ir.Module) *ProgramLayout {
	layout := &ProgramLayout{
		EntryPoints: make([]EntryPointLayout, 0, len(m.EntryPoints)),
	}
	for _, ep := range m.EntryPoints {
		layout.EntryPoints = append(layout.EntryPoints, EntryPointLayout{
			Name:          ep.Name,
			Stage:         stageFromIR(ep.Stage),
			WorkgroupSize: ep.Workgroup,
		})
	}

	for _, gv := range m.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		layout.Bindings = append(layout.Bindings, Binding{
			Name:     gv.Name,
			Group:    gv.Binding.Group,
			Binding:  gv.Binding.Binding,
			Kind:     bindingKind(m, gv),
			TypeName: typeName(m, gv.Type),
			Size:     typeSize(m, gv.Type),
		})
	}
	sort.Slice(layout.Bindings, func(i, j int) bool {
		a, b := layout.Bindings[i], layout.Bindings[j]
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Binding < b.Binding
	})
	return layout
}

func bindingKind(m *ir.Module, gv ir.GlobalVariable) BindingKind {
	switch gv.Space {
	case ir.SpaceUniform:
		return BindingUniformBuffer
	case ir.SpaceStorage:
		return BindingStorageBuffer
	case ir.SpaceHandle:
		if int(gv.Type) >= len(m.Types) {
			return BindingUnknown
		}
		switch inner := m.Types[gv.Type].Inner.(type) {
		case ir.SamplerType:
			if inner.Comparison {
				return BindingComparisonSampler
			}
			return BindingSampler
		case ir.ImageType:
			if inner.Class == ir.ImageClassStorage {
				return BindingStorageTexture
			}
			return BindingTexture
		}
	}
	return BindingUnknown
}

func scalarName(s ir.ScalarType) string {
	switch s.Kind {
	case ir.ScalarSint:
		return fmt.Sprintf("i%d", int(s.Width)*8)
	case ir.ScalarUint:
		return fmt.Sprintf("u%d", int(s.Width)*8)
	case ir.ScalarFloat:
		return fmt.Sprintf("f%d", int(s.Width)*8)
	case ir.ScalarBool:
		return "bool"
	default:
		return "?"
	}
}

func typeName(m *ir.Module, h ir.TypeHandle) string {
	if int(h) >= len(m.Types) {
		return "?"
	}
	t := m.Types[h]
	switch inner := t.Inner.(type) {
	case ir.ScalarType:
		return scalarName(inner)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", inner.Size, scalarName(inner.Scalar))
	case ir.MatrixType:
		return fmt.Sprintf("mat%dx%d<%s>", inner.Columns, inner.Rows, scalarName(inner.Scalar))
	case ir.AtomicType:
		return fmt.Sprintf("atomic<%s>", scalarName(inner.Scalar))
	case ir.ArrayType:
		if inner.Size.Constant == nil {
			return fmt.Sprintf("array<%s>", typeName(m, inner.Base))
		}
		return fmt.Sprintf("array<%s, %d>", typeName(m, inner.Base), *inner.Size.Constant)
	case ir.StructType:
		if t.Name != "" {
			return t.Name
		}
		return "struct"
	case ir.PointerType:
		return fmt.Sprintf("ptr<%s>", typeName(m, inner.Base))
	case ir.SamplerType:
		if inner.Comparison {
			return "sampler_comparison"
		}
		return "sampler"
	case ir.ImageType:
		return imageTypeName(inner)
	default:
		if t.Name != "" {
			return t.Name
		}
		return "?"
	}
}

func imageTypeName(img ir.ImageType) string {
	var dim string
	switch img.Dim {
	case ir.Dim1D:
		dim = "1d"
	case ir.Dim2D:
		dim = "2d"
	case ir.Dim3D:
		dim = "3d"
	case ir.DimCube:
		dim = "cube"
	}
	if img.Arrayed {
		dim += "_array"
	}
	switch img.Class {
	case ir.ImageClassDepth:
		return "texture_depth_" + dim
	case ir.ImageClassStorage:
		return "texture_storage_" + dim
	default:
		if img.Multisampled {
			return "texture_multisampled_" + dim
		}
		return "texture_" + dim
	}
}

func typeSize(m *ir.Module, h ir.TypeHandle) uint64 {
	if int(h) >= len(m.Types) {
		return 0
	}
	switch inner := m.Types[h].Inner.(type) {
	case ir.ScalarType:
		return uint64(inner.Width)
	case ir.AtomicType:
		return uint64(inner.Scalar.Width)
	case ir.VectorType:
		return uint64(inner.Size) * uint64(inner.Scalar.Width)
	case ir.MatrixType:
		// Columns are padded to vec4 alignment when rows == 3.
		rows := uint64(inner.Rows)
		if rows == 3 {
			rows = 4
		}
		return uint64(inner.Columns) * rows * uint64(inner.Scalar.Width)
	case ir.ArrayType:
		if inner.Size.Constant == nil {
			return 0
		}
		stride := uint64(inner.Stride)
		if stride == 0 {
			stride = typeSize(m, inner.Base)
		}
		return stride * uint64(*inner.Size.Constant)
	case ir.StructType:
		return uint64(inner.Span)
	default:
		return 0
	}
}
