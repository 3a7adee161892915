// Package cli implements the tinymark command-line interface. Commands
// translate arguments into store operations, render results as text or JSON
// and map failures to sysexits(3) exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinymark/internal/logger"
	"github.com/mesh-intelligence/tinymark/internal/paths"
	"github.com/mesh-intelligence/tinymark/pkg/types"
)

// Exit codes (sysexits.h).
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 64
	exitDataErr = 65
	exitNoInput = 66
	exitIOErr   = 74
	exitConfig  = 78
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	storePath string
	backend   string
	logLevel  string
	jsonMode  bool
}

// app is the state of one invocation. setup fills config, json and log
// from the config file and flags before any subcommand runs.
type app struct {
	flags     rootFlags
	configDir string
	config    types.Config
	json      bool
	log       logger.Logger
	out       io.Writer
	errOut    io.Writer
}

// usageError marks a bad invocation.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra argument validator so its failures are usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tinymark",
		Short: "A tiny personal bookmark manager",
		Long: `tinymark keeps URL bookmarks and folders in a local embedded database.

The store lives in ~/.local/share/tinymark/database unless --store or the
storage_location config key points elsewhere.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/tinymark)")
	root.PersistentFlags().StringVar(&a.flags.storePath, "store", "", "store location (default: ~/.local/share/tinymark/database)")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", "storage engine: leveldb or sqlite")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newFolderCmd(a))

	return root
}

// Run executes the command line args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		out:    stdout,
		errOut: stderr,
		log:    logger.New(logger.DefaultLevel, true, stderr),
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err != nil {
		a.reportFailure(err)
	}
	_ = a.log.Sync()

	if err != nil {
		return exitCode(err)
	}
	return exitSuccess
}

// Execute runs the command line of the current process and exits.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// setup builds the configuration once, before the subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir
	v, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrConfig, err)
	}

	a.json = a.flags.jsonMode || v.GetBool(cfgKeyJSON)

	level := firstNonEmpty(a.flags.logLevel, v.GetString(cfgKeyLogLevel))
	if !logger.ValidLevel(level) {
		return fmt.Errorf("%w: unknown log level %q", types.ErrConfig, level)
	}
	a.log = logger.New(level, !a.json, a.errOut)

	a.config = types.Config{
		Backend:     firstNonEmpty(a.flags.backend, v.GetString(cfgKeyBackend)),
		StoragePath: firstNonEmpty(a.flags.storePath, v.GetString(cfgKeyStorage)),
	}
	if err := a.config.Validate(); err != nil {
		return err
	}

	a.log.Debug("configuration loaded",
		logger.String("config_dir", configDir),
		logger.String("backend", a.config.Backend),
		logger.String("storage_location", a.config.StoragePath),
	)
	return nil
}

// exitCode maps an error to a sysexits code.
func exitCode(err error) int {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, types.ErrConfig):
		return exitConfig
	case errors.Is(err, types.ErrStoreOpen):
		return exitNoInput
	case errors.Is(err, types.ErrSerialization):
		return exitDataErr
	case errors.Is(err, types.ErrStoreIO):
		return exitIOErr
	case errors.Is(err, fs.ErrNotExist):
		return exitNoInput
	}
	return exitFailure
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
