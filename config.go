package gfxtest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/gfxtest/device"
	"github.com/gogpu/gfxtest/shader"
	"github.com/gogpu/naga/spirv"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the UnitTestContext options.
//
//	apis: [vulkan, null]
//	search_paths: [kernels]
//	snapshot_dir: testdata/failures
//	snapshot_scale: 8
//	compiler:
//	  spirv_version: "1.3"
//	  debug_info: false
//	  skip_validation: false
type Config struct {
	APIs          []string       `yaml:"apis"`
	SearchPaths   []string       `yaml:"search_paths"`
	SnapshotDir   string         `yaml:"snapshot_dir"`
	SnapshotScale int            `yaml:"snapshot_scale"`
	Compiler      CompilerConfig `yaml:"compiler"`
}

// CompilerConfig configures the global compiler session.
type CompilerConfig struct {
	SPIRVVersion   string `yaml:"spirv_version"`
	DebugInfo      bool   `yaml:"debug_info"`
	SkipValidation bool   `yaml:"skip_validation"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the test author
	if err != nil {
		return nil, fmt.Errorf("gfxtest: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration. Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("gfxtest: parse config: %w", err)
	}
	return &cfg, nil
}

// Options converts the configuration to context options.
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	if len(c.APIs) > 0 {
		apis, err := device.ParseAPIFlags(strings.Join(c.APIs, ","))
		if err != nil {
			return nil, fmt.Errorf("gfxtest: config apis: %w", err)
		}
		opts = append(opts, WithAPIs(apis))
	}
	if len(c.SearchPaths) > 0 {
		opts = append(opts, WithSearchPaths(c.SearchPaths...))
	}
	if c.SnapshotDir != "" {
		opts = append(opts, WithSnapshotDir(c.SnapshotDir))
	}
	if c.SnapshotScale > 0 {
		opts = append(opts, WithSnapshotScale(c.SnapshotScale))
	}

	desc := shader.GlobalSessionDesc{
		DebugInfo:      c.Compiler.DebugInfo,
		SkipValidation: c.Compiler.SkipValidation,
	}
	if c.Compiler.SPIRVVersion != "" {
		v, err := ParseSPIRVVersion(c.Compiler.SPIRVVersion)
		if err != nil {
			return nil, err
		}
		desc.SPIRVVersion = v
	}
	opts = append(opts, WithGlobalSessionDesc(desc))
	return opts, nil
}

// ParseSPIRVVersion parses a version such as "1.3".
func ParseSPIRVVersion(s string) (spirv.Version, error) {
	var major, minor uint8
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d.%d", &major, &minor); err != nil {
		return spirv.Version{}, fmt.Errorf("gfxtest: invalid SPIR-V version %q", s)
	}
	if major != 1 || minor > 6 {
		return spirv.Version{}, fmt.Errorf("gfxtest: unsupported SPIR-V version %q", s)
	}
	return spirv.Version{Major: major, Minor: minor}, nil
}
