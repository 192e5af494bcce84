// Package cli implements the timelog command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/timelog/internal/logging"
	"github.com/mesh-intelligence/timelog/internal/paths"
	"github.com/mesh-intelligence/timelog/internal/sqlite"
	"github.com/mesh-intelligence/timelog/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// sysError marks failures of the environment (filesystem, store) rather
// than of the request.
type sysError struct{ err error }

func (e sysError) Error() string { return e.err.Error() }
func (e sysError) Unwrap() error { return e.err }

func systemError(format string, args ...any) error {
	return sysError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	for _, target := range []error{types.ErrConnection, types.ErrPrepare, types.ErrBind, types.ErrStep, types.ErrStoreDetached} {
		if errors.Is(err, target) {
			return exitSysError
		}
	}
	return exitUserError
}

// app carries the global flags and the state resolved from them before a
// subcommand runs.
type app struct {
	configDirFlag string
	dataDirFlag   string
	logLevel      string
	verbose       int

	configDir string
	v         *viper.Viper
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "timelog" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "timelog",
		Short: "Export logged work time as delimited text",
		Long: "timelog stores workdays, tasks and their attributes in a local SQLite\n" +
			"database and exports them as CSV or any other delimited format.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDirFlag, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	pf.StringVar(&a.dataDirFlag, "data-dir", "", "data directory (env "+paths.EnvDataDir+")")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	pf.CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newColumnsCmd(),
		newImportCmd(a),
		newExportCmd(a),
		newPreviewCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. Log records go to stderr so stdout carries only command output.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	dir, err := paths.ResolveConfigDir(a.configDirFlag)
	if err != nil {
		return systemError("resolve config dir: %w", err)
	}
	a.configDir = dir

	v, err := loadConfig(dir)
	if err != nil {
		return err
	}
	a.v = v

	level, err := a.level()
	if err != nil {
		return err
	}
	a.logger = logging.NewLogger(cmd.ErrOrStderr(), level)
	return nil
}

// level picks the log level: --log-level, then -v, then log_level from
// config.yaml, then warn.
func (a *app) level() (slog.Level, error) {
	if a.logLevel != "" {
		level, ok := logging.LevelFromString(a.logLevel)
		if !ok {
			return 0, fmt.Errorf("unknown log level %q", a.logLevel)
		}
		return level, nil
	}
	if a.verbose > 0 {
		return logging.LevelFromVerbosity(a.verbose), nil
	}
	if s := a.v.GetString(cfgKeyLogLevel); s != "" {
		level, ok := logging.LevelFromString(s)
		if !ok {
			return 0, fmt.Errorf("%s: unknown log level %q", cfgKeyLogLevel, s)
		}
		return level, nil
	}
	return logging.LevelFromVerbosity(0), nil
}

// dataDir resolves the data directory from flag, config.yaml, env or the
// platform default.
func (a *app) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.dataDirFlag, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return "", systemError("resolve data dir: %w", err)
	}
	return dir, nil
}

// attachStore opens the store in the resolved data directory. The caller
// must Detach it.
func (a *app) attachStore() (*sqlite.Backend, error) {
	dir, err := a.dataDir()
	if err != nil {
		return nil, err
	}
	backend := sqlite.NewBackend(a.logger)
	cfg := types.Config{Backend: a.v.GetString(cfgKeyBackend), DataDir: dir}
	if err := backend.Attach(cfg); err != nil {
		if errors.Is(err, types.ErrBackendEmpty) || errors.Is(err, types.ErrBackendUnknown) {
			return nil, fmt.Errorf("attach store: %w", err)
		}
		return nil, systemError("attach store: %w", err)
	}
	return backend, nil
}

// detach closes backend, logging rather than returning a failure so it can
// be deferred.
func (a *app) detach(backend *sqlite.Backend) {
	if err := backend.Detach(); err != nil {
		a.logger.Warn("detach store", "error", err)
	}
}

// writeOut writes data to the command's stdout.
func writeOut(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return systemError("write output: %w", err)
	}
	return nil
}
