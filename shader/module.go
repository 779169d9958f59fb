package shader

import (
	"fmt"

	"github.com/gogpu/naga/ir"
)

// Stage is a pipeline stage an entry point runs on.
type Stage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota
	// StageFragment is the fragment stage.
	StageFragment
	// StageCompute is the compute stage.
	StageCompute
)

// String returns the WGSL attribute name of the stage.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

func stageFromIR(s ir.ShaderStage) Stage {
	switch s {
	case ir.StageVertex:
		return StageVertex
	case ir.StageFragment:
		return StageFragment
	default:
		return StageCompute
	}
}

// Module is a loaded and lowered shader module.
type Module struct {
	session     *Session
	name        string
	path        string
	source      string
	ir          *ir.Module
	entryPoints []*EntryPoint
}

func newModule(s *Session, name, origin, source string, m *ir.Module) *Module {
	mod := &Module{
		session: s,
		name:    name,
		path:    origin,
		source:  source,
		ir:      m,
	}
	mod.entryPoints = make([]*EntryPoint, len(m.EntryPoints))
	for i := range m.EntryPoints {
		ep := &m.EntryPoints[i]
		mod.entryPoints[i] = &EntryPoint{
			module:    mod,
			index:     i,
			name:      ep.Name,
			stage:     stageFromIR(ep.Stage),
			workgroup: ep.Workgroup,
		}
	}
	return mod
}

// Name returns the module name without extension.
func (m *Module) Name() string { return m.name }

// Path returns the file the module was read from.
func (m *Module) Path() string { return m.path }

// Source returns the WGSL source text.
func (m *Module) Source() string { return m.source }

// IR returns the lowered module. Callers must not modify it.
func (m *Module) IR() *ir.Module { return m.ir }

// EntryPoints returns every entry point declared by the module.
func (m *Module) EntryPoints() []*EntryPoint {
	return append([]*EntryPoint(nil), m.entryPoints...)
}

// FindEntryPointByName returns the entry point with the given name.
func (m *Module) FindEntryPointByName(name string) (*EntryPoint, error) {
	for _, ep := range m.entryPoints {
		if ep.name == name {
			return ep, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in module %s", ErrEntryPointNotFound, name, m.name)
}

// EntryPoint is a function of a module selected for a pipeline stage.
type EntryPoint struct {
	module    *Module
	index     int
	name      string
	stage     Stage
	workgroup [3]uint32
}

// Name returns the entry point function name.
func (e *EntryPoint) Name() string { return e.name }

// Stage returns the pipeline stage.
func (e *EntryPoint) Stage() Stage { return e.stage }

// Module returns the module that declares the entry point.
func (e *EntryPoint) Module() *Module { return e.module }

// WorkgroupSize returns the compute workgroup size. It is zero for
// vertex and fragment entry points.
func (e *EntryPoint) WorkgroupSize() [3]uint32 { return e.workgroup }
