// Package cmd implements the starport-demo commands.
//
// The root command resolves the project configuration and logger once, then
// dispatches to run, trace and version.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/go-drift/starport/internal/config"
	"github.com/go-drift/starport/pkg/errors"
	"github.com/go-drift/starport/pkg/graphics"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var (
	projectDir   string
	logLevelFlag string
	resolved     *config.Resolved
)

var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "starport-demo",
	Short: "Fly a stateful widget between slots in the terminal",
	Long: `starport-demo renders a small widget tree headlessly and draws it in the
terminal. A tap counter is carried by a starport: moving it between slots
animates it to the new place while its count survives the move.

Configuration is read from starport.yaml or starport.toml in the project
directory when present.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", "", "Project directory (default: enclosing module root, else the working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func setup(stderr io.Writer) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevelFlag != "" {
		level, err := zerolog.ParseLevel(logLevelFlag)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.LogLevel = level
	}
	resolved = cfg
	setLogger(stderr)
	if cfg.Source != "" {
		logger.Debug().Str("source", cfg.Source).Msg("configuration loaded")
	}
	return nil
}

func resolveDir() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	if root, err := config.FindProjectRoot(); err == nil {
		return root, nil
	}
	return os.Getwd()
}

// setLogger points the command logger and the framework error handler at w.
func setLogger(w io.Writer) {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	logger = zerolog.New(output).
		Level(resolved.LogLevel).
		With().Timestamp().Str("app", resolved.AppName).
		Logger()
	errors.SetHandler(&errors.LogHandler{Logger: &logger})
}

func surfaceSize() graphics.Size {
	return graphics.Size{Width: resolved.Width, Height: resolved.Height}
}
