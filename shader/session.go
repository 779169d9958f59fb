package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/naga/wgsl"
)

// moduleExt is appended to module names given without an extension.
const moduleExt = ".wgsl"

// GlobalSessionDesc configures a GlobalSession.
type GlobalSessionDesc struct {
	// SPIRVVersion is the SPIR-V version emitted for TargetSPIRV.
	// Defaults to SPIR-V 1.3 when zero.
	SPIRVVersion spirv.Version

	// DebugInfo includes debug names in generated SPIR-V.
	DebugInfo bool

	// SkipValidation disables IR validation when composing programs.
	SkipValidation bool
}

// GlobalSession holds compiler configuration shared by every Session of a
// test run. It is immutable after creation and safe for concurrent use.
type GlobalSession struct {
	desc GlobalSessionDesc
}

// NewGlobalSession creates a global compiler session.
func NewGlobalSession(desc GlobalSessionDesc) *GlobalSession {
	if desc.SPIRVVersion == (spirv.Version{}) {
		desc.SPIRVVersion = spirv.Version1_3
	}
	return &GlobalSession{desc: desc}
}

// Desc returns the configuration the session was created with.
func (g *GlobalSession) Desc() GlobalSessionDesc {
	return g.desc
}

// SessionDesc configures a Session.
type SessionDesc struct {
	// SearchPaths are directories tried in order when loading a module.
	// An empty entry means the current directory.
	SearchPaths []string

	// FS, when set, is used instead of the operating system file system.
	// Search paths are then interpreted as slash-separated fs.FS paths.
	FS fs.FS
}

// Session loads modules and composes programs. A Session is typically
// owned by one device.
type Session struct {
	global      *GlobalSession
	searchPaths []string
	fsys        fs.FS
}

// CreateSession creates a compiler session that shares this global
// configuration.
func (g *GlobalSession) CreateSession(desc SessionDesc) *Session {
	paths := desc.SearchPaths
	if len(paths) == 0 {
		paths = []string{""}
	}
	return &Session{
		global:      g,
		searchPaths: append([]string(nil), paths...),
		fsys:        desc.FS,
	}
}

// GlobalSession returns the global session this session was created from.
func (s *Session) GlobalSession() *GlobalSession {
	return s.global
}

// SearchPaths returns a copy of the session's search paths.
func (s *Session) SearchPaths() []string {
	return append([]string(nil), s.searchPaths...)
}

// LoadModule locates, parses and lowers the named module.
//
// Diagnostics are returned whenever the compiler produced output, including
// warnings alongside a nil error. On failure the error wraps ErrModuleNotFound or
// ErrCompile.
func (s *Session) LoadModule(name string) (*Module, *Diagnostics, error) {
	file := name
	if path.Ext(file) == "" {
		file += moduleExt
	}

	source, origin, err := s.readModule(file)
	if err != nil {
		diag := &Diagnostics{text: fmt.Sprintf("%s: error: cannot open module (search paths: %s)\n",
			file, quoteAll(s.searchPaths))}
		return nil, diag, fmt.Errorf("%w: %s: %w", ErrModuleNotFound, name, err)
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, diagnosticsFromError(origin, err), fmt.Errorf("%w: %s: %w", ErrCompile, origin, err)
	}
	lowered, err := wgsl.LowerWithWarnings(ast, source)
	if err != nil {
		return nil, diagnosticsFromError(origin, err), fmt.Errorf("%w: %s: %w", ErrCompile, origin, err)
	}

	m := newModule(s, strings.TrimSuffix(path.Base(file), moduleExt), origin, source, lowered.Module)
	slogger().Debug("shader: module loaded",
		"module", m.name, "path", origin, "entryPoints", len(m.entryPoints), "warnings", len(lowered.Warnings))
	return m, diagnosticsFromWarnings(origin, lowered.Warnings), nil
}

// readModule returns the source of the first search path hit and the path
// it was read from.
func (s *Session) readModule(file string) (string, string, error) {
	var errs []error
	for _, dir := range s.searchPaths {
		var (
			full string
			data []byte
			err  error
		)
		if s.fsys != nil {
			full = path.Join(dir, file)
			if dir == "" {
				full = path.Clean(file)
			}
			data, err = fs.ReadFile(s.fsys, full)
		} else {
			full = filepath.Join(dir, filepath.FromSlash(file))
			data, err = os.ReadFile(full)
		}
		if err == nil {
			return string(data), full, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", "", fs.ErrNotExist
	}
	return "", "", errors.Join(errs...)
}

func quoteAll(paths []string) string {
	q := make([]string, len(paths))
	for i, p := range paths {
		q[i] = fmt.Sprintf("%q", p)
	}
	return strings.Join(q, ", ")
}
