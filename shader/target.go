package shader

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
)

// Target is a code generation target.
type Target uint8

const (
	// TargetWGSL passes the module source through unchanged.
	TargetWGSL Target = iota
	// TargetSPIRV emits a SPIR-V binary (Vulkan).
	TargetSPIRV
	// TargetHLSL emits HLSL source (Direct3D).
	TargetHLSL
	// TargetMSL emits Metal Shading Language source.
	TargetMSL
	// TargetGLSL emits one GLSL translation unit per entry point.
	TargetGLSL
)

var targetNames = [...]string{
	TargetWGSL:  "wgsl",
	TargetSPIRV: "spirv",
	TargetHLSL:  "hlsl",
	TargetMSL:   "msl",
	TargetGLSL:  "glsl",
}

// String returns the lower-case target name.
func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", t)
}

// ParseTarget parses a target name such as "spirv" or "hlsl".
func ParseTarget(s string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "spv" || name == "spir-v" {
		name = "spirv"
	}
	for i, n := range targetNames {
		if n == name {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// AllTargets lists every supported target.
func AllTargets() []Target {
	return []Target{TargetWGSL, TargetSPIRV, TargetHLSL, TargetMSL, TargetGLSL}
}

// Code is the output of compiling a Program for a target.
type Code struct {
	Target Target

	// Source holds WGSL, HLSL or MSL text.
	Source string

	// SPIRV holds the little-endian SPIR-V binary.
	SPIRV []byte

	// Stages holds GLSL text keyed by entry point name.
	Stages map[string]string

	// EntryPointNames maps entry point names to the names used in the
	// generated code, when the backend renames them.
	EntryPointNames map[string]string
}

// Words returns the SPIR-V binary as 32-bit words.
func (c *Code) Words() []uint32 {
	words := make([]uint32, len(c.SPIRV)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(c.SPIRV[i*4:])
	}
	return words
}

// Size returns the size of the generated code in bytes.
func (c *Code) Size() int {
	n := len(c.Source) + len(c.SPIRV)
	for _, s := range c.Stages {
		n += len(s)
	}
	return n
}

// Compile generates code for target. Errors wrap ErrCompile.
func (p *Program) Compile(target Target) (*Code, error) {
	code := &Code{Target: target}
	switch target {
	case TargetWGSL:
		code.Source = p.module.source

	case TargetSPIRV:
		desc := p.session.global.desc
		bin, err := naga.GenerateSPIRV(p.linked, spirv.Options{
			Version: desc.SPIRVVersion,
			Debug:   desc.DebugInfo,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCompile, target, err)
		}
		code.SPIRV = bin

	case TargetHLSL:
		src, info, err := hlsl.Compile(p.linked, hlsl.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCompile, target, err)
		}
		code.Source = src
		if info != nil {
			code.EntryPointNames = info.EntryPointNames
		}

	case TargetMSL:
		src, info, err := msl.Compile(p.linked, msl.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCompile, target, err)
		}
		code.Source = src
		code.EntryPointNames = info.EntryPointNames

	case TargetGLSL:
		code.Stages = make(map[string]string, len(p.entryPoints))
		code.EntryPointNames = make(map[string]string, len(p.entryPoints))
		for _, ep := range p.entryPoints {
			opts := glsl.DefaultOptions()
			opts.EntryPoint = ep.name
			if ep.stage == StageCompute {
				opts.LangVersion = glsl.Version430
			}
			src, info, err := glsl.Compile(p.linked, opts)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %s: %w", ErrCompile, target, ep.name, err)
			}
			code.Stages[ep.name] = src
			if n, ok := info.EntryPointNames[ep.name]; ok {
				code.EntryPointNames[ep.name] = n
			}
		}

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTarget, target)
	}

	slogger().Debug("shader: program compiled",
		"module", p.module.name, "target", target.String(), "bytes", code.Size())
	return code, nil
}
