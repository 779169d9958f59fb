package shader

import "errors"

// Common shader errors.
var (
	// ErrModuleNotFound is returned when no search path contains the module.
	ErrModuleNotFound = errors.New("shader: module not found")

	// ErrEntryPointNotFound is returned when a module has no entry point
	// with the requested name.
	ErrEntryPointNotFound = errors.New("shader: entry point not found")

	// ErrCompile is returned when parsing, lowering, validation or code
	// generation fails. The accompanying Diagnostics carry the details.
	ErrCompile = errors.New("shader: compilation failed")

	// ErrForeignEntryPoint is returned when an entry point passed to
	// CreateCompositeProgram belongs to a different module.
	ErrForeignEntryPoint = errors.New("shader: entry point belongs to another module")

	// ErrNoEntryPoints is returned when a composite program is requested
	// without entry points.
	ErrNoEntryPoints = errors.New("shader: composite program needs at least one entry point")

	// ErrDuplicateStage is returned when two entry points of a composite
	// program target the same pipeline stage.
	ErrDuplicateStage = errors.New("shader: duplicate pipeline stage")

	// ErrUnknownTarget is returned for an unsupported code generation target.
	ErrUnknownTarget = errors.New("shader: unknown target")
)
