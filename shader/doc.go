// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader is the compiler session used by the gfxtest harness.
//
// It wraps the gogpu/naga compiler behind a small session API modelled on
// the way test code thinks about shaders:
//
//	global := shader.NewGlobalSession(shader.GlobalSessionDesc{})
//	session := global.CreateSession(shader.SessionDesc{
//		SearchPaths: []string{"", "testdata/shaders"},
//	})
//
//	module, diag, err := session.LoadModule("compute-trivial")
//	entry, err := module.FindEntryPointByName("computeMain")
//	program, diag, err := session.CreateCompositeProgram(module, entry)
//
//	layout := program.Layout()          // reflection
//	code, err := program.Compile(shader.TargetSPIRV)
//
// # Modules
//
// A module is one WGSL source file, located by name through the session's
// search paths. The ".wgsl" extension is appended when the name has none.
// Loading parses and lowers the source to naga IR; lowering errors are
// reported as [Diagnostics] with source context.
//
// # Composite programs
//
// A composite program links a module with one or more of its entry points.
// Composition runs IR validation (unless disabled on the global session) and
// builds the [ProgramLayout] reflection.
//
// # Targets
//
// Programs compile to WGSL (pass-through), SPIR-V, HLSL, MSL and GLSL.
// GLSL is emitted per entry point since a GLSL translation unit holds a
// single stage.
package shader
