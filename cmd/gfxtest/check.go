package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/gfxtest/shader"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errCheckFailed is returned when at least one module fails to compile.
var errCheckFailed = errors.New("check failed")

// errInvalidJobs is returned for a --jobs value below 1.
var errInvalidJobs = errors.New("--jobs must be at least 1")

// checkFailure records one module that did not compile.
type checkFailure struct {
	path string
	err  error
	diag string
}

func newCheckCommand(a *app) *cobra.Command {
	var (
		jobs    int
		targets []string
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "check [dir...]",
		Short: "Compile every module under the given directories for all targets",
		Long: `check walks the directories (default: the current directory), loads
every .wgsl module and compiles each entry point for every target. It
exits non-zero when any module fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("%w: got %d", errInvalidJobs, jobs)
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			ts, err := parseTargets(targets)
			if err != nil {
				return err
			}
			files, err := findModules(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no modules found")
				return nil
			}
			ctx, err := a.context()
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("compiling"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetVisibility(!quiet),
			)

			var (
				mu       sync.Mutex
				failures []checkFailure
			)
			var g errgroup.Group
			g.SetLimit(jobs)
			for _, file := range files {
				g.Go(func() error {
					session := ctx.GlobalSession.CreateSession(shader.SessionDesc{SearchPaths: []string{""}})
					if f := checkModule(session, file, ts); f != nil {
						mu.Lock()
						failures = append(failures, *f)
						mu.Unlock()
					}
					_ = bar.Add(1)
					return nil
				})
			}
			_ = g.Wait()
			_ = bar.Finish()

			out := cmd.OutOrStdout()
			sort.Slice(failures, func(i, j int) bool { return failures[i].path < failures[j].path })
			for _, f := range failures {
				fmt.Fprintf(out, "FAIL %s: %v\n", f.path, f.err)
				if f.diag != "" {
					fmt.Fprint(out, indent(f.diag))
				}
			}
			fmt.Fprintf(out, "%d modules, %d failed\n", len(files), len(failures))
			if len(failures) > 0 {
				return fmt.Errorf("%w: %d of %d modules", errCheckFailed, len(failures), len(files))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "modules compiled concurrently")
	f.StringSliceVar(&targets, "target", nil, "targets to compile (default: all)")
	f.BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func parseTargets(names []string) ([]shader.Target, error) {
	if len(names) == 0 {
		return shader.AllTargets(), nil
	}
	ts := make([]shader.Target, 0, len(names))
	for _, n := range names {
		t, err := shader.ParseTarget(n)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}

// findModules returns the .wgsl files under dirs in lexical order.
func findModules(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".wgsl" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// checkModule compiles each entry point of the module at path on its own
// for every target.
func checkModule(session *shader.Session, path string, targets []shader.Target) *checkFailure {
	m, diag, err := session.LoadModule(path)
	if err != nil {
		return &checkFailure{path: path, err: err, diag: diag.String()}
	}
	for _, ep := range m.EntryPoints() {
		prog, diag, err := session.CreateCompositeProgram(m, ep)
		if err != nil {
			return &checkFailure{path: path, err: err, diag: diag.String()}
		}
		for _, t := range targets {
			if _, err := prog.Compile(t); err != nil {
				return &checkFailure{path: path, err: fmt.Errorf("%s: %w", ep.Name(), err)}
			}
		}
	}
	return nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return "    " + strings.Join(lines, "\n    ") + "\n"
}
