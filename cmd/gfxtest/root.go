package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gogpu/gfxtest"
	"github.com/gogpu/gfxtest/shader"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the settings shared by all subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "gfxtest",
		Short: "Inspect shader modules and graphics backends for gfxtest",
		Long: `gfxtest compiles shader modules the way gfxtest based tests do and
reports which graphics backends can create devices on this machine.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./gfxtest.yaml)")
	pf.BoolP("verbose", "v", false, "log compiler and device activity to stderr")
	pf.StringSliceP("search-path", "I", nil, "module search path, tried before the defaults")
	pf.String("apis", "", "enabled APIs, comma-separated (e.g. vulkan,null)")
	pf.String("spirv-version", "", "SPIR-V version to emit (e.g. 1.3)")
	pf.Bool("skip-validation", false, "skip IR validation when composing programs")

	_ = a.v.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = a.v.BindPFlag("search_paths", pf.Lookup("search-path"))
	_ = a.v.BindPFlag("apis", pf.Lookup("apis"))
	_ = a.v.BindPFlag("compiler.spirv_version", pf.Lookup("spirv-version"))
	_ = a.v.BindPFlag("compiler.skip_validation", pf.Lookup("skip-validation"))

	root.AddCommand(
		newBackendsCommand(a),
		newCompileCommand(a),
		newCheckCommand(a),
		newVersionCommand(),
	)
	return root
}

// init reads the config file and environment and installs the logger.
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("GFXTEST")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("gfxtest")
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}

	if a.v.GetBool("verbose") {
		gfxtest.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		if used := a.v.ConfigFileUsed(); used != "" {
			gfxtest.Logger().Debug("gfxtest: using config file", "path", used)
		}
	}
	return nil
}

// config assembles the harness configuration from flags, environment and
// config file, in viper's precedence order.
func (a *app) config() gfxtest.Config {
	return gfxtest.Config{
		APIs:          a.v.GetStringSlice("apis"),
		SearchPaths:   a.v.GetStringSlice("search_paths"),
		SnapshotDir:   a.v.GetString("snapshot_dir"),
		SnapshotScale: a.v.GetInt("snapshot_scale"),
		Compiler: gfxtest.CompilerConfig{
			SPIRVVersion:   a.v.GetString("compiler.spirv_version"),
			DebugInfo:      a.v.GetBool("compiler.debug_info"),
			SkipValidation: a.v.GetBool("compiler.skip_validation"),
		},
	}
}

// context builds a UnitTestContext from the current settings.
func (a *app) context() (*gfxtest.UnitTestContext, error) {
	cfg := a.config()
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return gfxtest.NewUnitTestContext(opts...), nil
}

// session creates a compiler session over the context's search paths.
func (a *app) session(extra ...string) (*shader.Session, error) {
	ctx, err := a.context()
	if err != nil {
		return nil, err
	}
	paths := append([]string{}, extra...)
	paths = append(paths, ctx.SearchPaths...)
	paths = append(paths, gfxtest.DefaultSearchPaths...)
	return ctx.GlobalSession.CreateSession(shader.SessionDesc{SearchPaths: paths}), nil
}
