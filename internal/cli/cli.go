// Package cli holds the process plumbing shared by the command binaries.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joeychilson/pdftools/config"
	"github.com/joeychilson/pdftools/logger"
)

const (
	EnvConfig   = "PDFTOOLS_CONFIG"
	EnvLogLevel = "LOG_LEVEL"
)

// ErrReported marks a failure whose JSON result has already been written.
var ErrReported = errors.New("result reported")

// LoadEnv loads a .env file from the working directory when one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Options are the flags common to every command.
type Options struct {
	ConfigPath string
	LogLevel   string
}

// Bind registers the common flags on cmd, defaulting from the environment.
func (o *Options) Bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.ConfigPath, "config", os.Getenv(EnvConfig), "path to a YAML config file")
	flags.StringVar(&o.LogLevel, "log-level", os.Getenv(EnvLogLevel), "log level (debug, info, warn, error)")
}

// Load reads the configuration file, or the defaults when none is set.
func (o *Options) Load() (*config.Config, error) {
	return config.Load(o.ConfigPath)
}

// Logger builds the stderr logger. A --log-level flag overrides the file's level.
func (o *Options) Logger(w io.Writer, cfg config.LogConfig) (logger.Logger, error) {
	if o.LogLevel != "" {
		cfg.Level = o.LogLevel
	}
	return logger.FromConfig(w, cfg)
}

// NewCommand returns a root command that never prints errors or usage on its
// own, so stdout carries nothing but the command's JSON result.
func NewCommand(use, short, version string, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	return cmd
}

// Execute runs cmd with args and maps the outcome to a process exit code. Any
// error other than ErrReported comes from flag parsing and is handed to onUsage,
// which must write the failure result.
func Execute(ctx context.Context, cmd *cobra.Command, args []string, onUsage func(error)) int {
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, ErrReported) {
		onUsage(err)
	}
	return 1
}

// WriteJSON writes v to w as one line of JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
