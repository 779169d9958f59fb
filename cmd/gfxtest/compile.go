package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gogpu/gfxtest/shader"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCompileCommand(a *app) *cobra.Command {
	var (
		entries []string
		target  string
		layout  bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "compile <module>",
		Short: "Compile entry points of a module for a backend target",
		Long: `compile loads a module from the search paths, links the named entry
points into a composite program and prints the generated code, or the
program layout with --layout. SPIR-V is printed as hex words unless
--output names a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := shader.ParseTarget(target)
			if err != nil {
				return err
			}
			session, err := a.session()
			if err != nil {
				return err
			}
			prog, err := compose(session, args[0], entries, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if layout {
				return writeLayout(cmd.OutOrStdout(), prog.Layout())
			}
			code, err := prog.Compile(t)
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, codeBytes(code), 0o644) //nolint:gosec // generated code is not secret
			}
			return writeCode(cmd.OutOrStdout(), code)
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&entries, "entry", "e", nil, "entry point names (default: every entry point)")
	f.StringVarP(&target, "target", "t", "spirv", "target: wgsl, spirv, hlsl, msl or glsl")
	f.BoolVar(&layout, "layout", false, "print the program layout as YAML instead of code")
	f.StringVarP(&output, "output", "o", "", "write the generated code to a file")
	return cmd
}

// compose loads module and links entries into a program. Diagnostics are
// written to diag.
func compose(session *shader.Session, module string, entries []string, diag io.Writer) (*shader.Program, error) {
	m, d, err := session.LoadModule(module)
	if d.Len() > 0 {
		_, _ = diag.Write(d.Bytes())
	}
	if err != nil {
		return nil, err
	}

	var eps []*shader.EntryPoint
	if len(entries) == 0 {
		eps = m.EntryPoints()
	}
	for _, name := range entries {
		ep, err := m.FindEntryPointByName(name)
		if err != nil {
			return nil, err
		}
		eps = append(eps, ep)
	}

	prog, d, err := session.CreateCompositeProgram(m, eps...)
	if d.Len() > 0 {
		_, _ = diag.Write(d.Bytes())
	}
	return prog, err
}

// layoutDoc is the YAML form of a program layout.
type layoutDoc struct {
	EntryPoints []entryPointDoc `yaml:"entry_points"`
	Bindings    []bindingDoc    `yaml:"bindings,omitempty"`
}

type entryPointDoc struct {
	Name          string   `yaml:"name"`
	Stage         string   `yaml:"stage"`
	WorkgroupSize []uint32 `yaml:"workgroup_size,flow,omitempty"`
}

type bindingDoc struct {
	Name    string `yaml:"name"`
	Group   uint32 `yaml:"group"`
	Binding uint32 `yaml:"binding"`
	Kind    string `yaml:"kind"`
	Type    string `yaml:"type"`
	Size    uint64 `yaml:"size,omitempty"`
}

func writeLayout(w io.Writer, l *shader.ProgramLayout) error {
	var doc layoutDoc
	for _, ep := range l.EntryPoints {
		e := entryPointDoc{Name: ep.Name, Stage: ep.Stage.String()}
		if ep.Stage == shader.StageCompute {
			e.WorkgroupSize = ep.WorkgroupSize[:]
		}
		doc.EntryPoints = append(doc.EntryPoints, e)
	}
	for _, b := range l.Bindings {
		doc.Bindings = append(doc.Bindings, bindingDoc{
			Name:    b.Name,
			Group:   b.Group,
			Binding: b.Binding,
			Kind:    b.Kind.String(),
			Type:    b.TypeName,
			Size:    b.Size,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func writeCode(w io.Writer, code *shader.Code) error {
	switch {
	case code.Target == shader.TargetSPIRV:
		for i, word := range code.Words() {
			sep := " "
			if i%8 == 7 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%08x%s", word, sep); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w)
		return err
	case code.Stages != nil:
		for _, name := range sortedKeys(code.Stages) {
			if _, err := fmt.Fprintf(w, "// entry point %s\n%s\n", name, code.Stages[name]); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := io.WriteString(w, code.Source)
		return err
	}
}

// codeBytes returns the bytes written by --output.
func codeBytes(code *shader.Code) []byte {
	if code.Target == shader.TargetSPIRV {
		return code.SPIRV
	}
	if code.Stages != nil {
		var out []byte
		for _, name := range sortedKeys(code.Stages) {
			out = append(out, code.Stages[name]...)
		}
		return out
	}
	return []byte(code.Source)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
