package shader

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Program is a module linked with a set of its entry points, ready for
// device-side compilation.
type Program struct {
	session     *Session
	module      *Module
	entryPoints []*EntryPoint
	linked      *ir.Module
	layout      *ProgramLayout
}

// CreateCompositeProgram links module with the given entry points.
//
// The linked IR keeps only the selected entry points so code generation
// does not emit unrelated stages. Validation failures are reported through
// the returned Diagnostics and an error wrapping ErrCompile.
func (s *Session) CreateCompositeProgram(module *Module, entryPoints ...*EntryPoint) (*Program, *Diagnostics, error) {
	if module == nil {
		return nil, nil, fmt.Errorf("%w: nil module", ErrCompile)
	}
	if len(entryPoints) == 0 {
		return nil, nil, ErrNoEntryPoints
	}

	seen := make(map[Stage]string, len(entryPoints))
	selected := make([]ir.EntryPoint, 0, len(entryPoints))
	for _, ep := range entryPoints {
		if ep == nil || ep.module != module {
			name := "<nil>"
			if ep != nil {
				name = ep.name
			}
			return nil, nil, fmt.Errorf("%w: %s", ErrForeignEntryPoint, name)
		}
		if prev, dup := seen[ep.stage]; dup {
			return nil, nil, fmt.Errorf("%w: %s and %s are both %s entry points",
				ErrDuplicateStage, prev, ep.name, ep.stage)
		}
		seen[ep.stage] = ep.name
		selected = append(selected, module.ir.EntryPoints[ep.index])
	}

	linked := *module.ir
	linked.EntryPoints = selected

	if !s.global.desc.SkipValidation {
		verrs, err := naga.Validate(&linked)
		if err != nil {
			return nil, diagnosticsFromError(module.path, err), fmt.Errorf("%w: %s: %w", ErrCompile, module.path, err)
		}
		if len(verrs) > 0 {
			return nil, diagnosticsFromValidation(module.path, verrs),
				fmt.Errorf("%w: %s: %w", ErrCompile, module.path, &verrs[0])
		}
	}

	p := &Program{
		session:     s,
		module:      module,
		entryPoints: append([]*EntryPoint(nil), entryPoints...),
		linked:      &linked,
	}
	p.layout = reflectLayout(&linked)

	slogger().Debug("shader: composite program created",
		"module", module.name, "entryPoints", len(entryPoints), "bindings", len(p.layout.Bindings))
	return p, nil, nil
}

// Module returns the program's module.
func (p *Program) Module() *Module { return p.module }

// EntryPoints returns the linked entry points in composition order.
func (p *Program) EntryPoints() []*EntryPoint {
	return append([]*EntryPoint(nil), p.entryPoints...)
}

// EntryPoint returns the entry point linked for stage, or nil.
func (p *Program) EntryPoint(stage Stage) *EntryPoint {
	for _, ep := range p.entryPoints {
		if ep.stage == stage {
			return ep
		}
	}
	return nil
}

// IsCompute reports whether the program links a compute entry point.
func (p *Program) IsCompute() bool {
	return p.EntryPoint(StageCompute) != nil
}

// Layout returns the program's reflection data.
func (p *Program) Layout() *ProgramLayout { return p.layout }
