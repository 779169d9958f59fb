package gfxtest

import (
	"fmt"

	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/shader"
)

// LoadComputeProgram loads moduleName from the device's search paths,
// links entryPointName into a composite program and creates the backend
// program object.
//
// Compiler diagnostics are logged through r whether or not the step
// fails. The returned program holds one reference; call Release when done.
// The layout describes the composite program and stays valid after
// Release.
func LoadComputeProgram(r Reporter, dev *device.Device, moduleName, entryPointName string) (*device.Program, *shader.ProgramLayout, error) {
	r.Helper()
	return loadProgram(r, dev, moduleName, entryPointName)
}

// LoadGraphicsProgram is LoadComputeProgram for a vertex and a fragment
// entry point of the same module.
func LoadGraphicsProgram(r Reporter, dev *device.Device, moduleName, vertexEntryPointName, fragmentEntryPointName string) (*device.Program, *shader.ProgramLayout, error) {
	r.Helper()
	return loadProgram(r, dev, moduleName, vertexEntryPointName, fragmentEntryPointName)
}

func loadProgram(r Reporter, dev *device.Device, moduleName string, entryPointNames ...string) (*device.Program, *shader.ProgramLayout, error) {
	r.Helper()
	if dev == nil {
		return nil, nil, fmt.Errorf("gfxtest: load %s: nil device", moduleName)
	}
	session := dev.ShaderSession()

	module, diag, err := session.LoadModule(moduleName)
	diagnoseIfNeeded(r, diag)
	if err != nil {
		return nil, nil, err
	}

	entryPoints := make([]*shader.EntryPoint, 0, len(entryPointNames))
	for _, name := range entryPointNames {
		ep, err := module.FindEntryPointByName(name)
		if err != nil {
			return nil, nil, err
		}
		entryPoints = append(entryPoints, ep)
	}

	composite, diag, err := session.CreateCompositeProgram(module, entryPoints...)
	diagnoseIfNeeded(r, diag)
	if err != nil {
		return nil, nil, err
	}

	prog, err := dev.CreateProgram(device.ProgramDesc{Program: composite})
	if err != nil {
		return nil, nil, err
	}
	Logger().Debug("gfxtest: program loaded",
		"module", moduleName, "entryPoints", entryPointNames, "api", dev.API().String())
	return prog, composite.Layout(), nil
}
