// Package cli implements the reel command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tOgg1/reel/internal/config"
	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/storytui"
)

// ExitError carries a process exit code. Printed reports whether the
// command already told the user what went wrong.
type ExitError struct {
	Code    int
	Err     error
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// app is the state shared by every command of one invocation. Tests swap
// the IO and the viewer.
type app struct {
	version string

	configFile string
	logLevel   string
	logFormat  string

	cfg   *config.Config
	store *config.ContextStore

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	interactive func() bool
	runViewer   func(storytui.Config) (string, error)

	// logFile is closed once the command finishes.
	logFile *os.File
}

func newApp(version string) *app {
	return &app{
		version:     version,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		now:         time.Now,
		interactive: hasTTY,
		runViewer:   storytui.Run,
	}
}

// Execute runs the reel command line.
func Execute(version string) error {
	a := newApp(version)
	defer a.closeLog()
	return newRootCmd(a).Execute()
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reel",
		Short:         "Play story decks in the terminal",
		Long:          "reel plays decks of per-user stories with timed progress, tap and swipe navigation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       a.version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/reel/config.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (console, json)")

	cmd.AddCommand(
		newPlayCmd(a),
		newValidateCmd(a),
		newContextCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// setup loads configuration and starts logging. Flags override the file and
// the environment.
func (a *app) setup(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if a.configFile != "" {
		loader.SetConfigFile(a.configFile)
	}
	if cmd.Flags().Changed("log-level") {
		loader.Set("logging.level", a.logLevel)
	}
	if cmd.Flags().Changed("log-format") {
		loader.Set("logging.format", a.logFormat)
	}
	cfg, err := loader.Load()
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}
	a.cfg = cfg
	if a.store == nil {
		a.store = config.DefaultContextStore()
	}

	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       a.stderr,
		EnableCaller: cfg.Logging.EnableCaller,
	})
	logging.Logger.Debug().Str("config", loader.ConfigFileUsed()).Msg("configuration loaded")
	return nil
}

// logToFile moves logging off the terminal before the viewer takes it over.
// Without a configured file, logs are dropped.
func (a *app) logToFile() error {
	cfg := a.cfg.Logging
	out := io.Discard
	if cfg.File != "" {
		if err := a.cfg.EnsureLogDirectory(); err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		out = f
	}
	logging.Init(logging.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       out,
		EnableCaller: cfg.EnableCaller,
		NoColor:      true,
	})
	return nil
}

func (a *app) closeLog() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
