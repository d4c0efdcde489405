// Package cli holds the plumbing shared by the bootstrap commands: logger
// setup and mapping command errors to exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linkerlin/nanoclaw-brain/internal/config"
	"github.com/linkerlin/nanoclaw-brain/internal/seed"
)

// BindCommonFlags registers --store-dir and --log-level on cmd and binds
// them to v.
func BindCommonFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().String("store-dir", "", "directory holding messages.db (env NANOCLAW_STORE_DIR)")
	cmd.Flags().String("log-level", "", "debug, info, warn or error (env NANOCLAW_LOG_LEVEL)")
	_ = v.BindPFlag(config.KeyStoreDir, cmd.Flags().Lookup("store-dir"))
	_ = v.BindPFlag(config.KeyLogLevel, cmd.Flags().Lookup("log-level"))
}

// SetupLogging installs a JSON slog handler on w as the default logger.
func SetupLogging(w io.Writer, level string) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))
}

// ParseLevel maps a level name to a slog.Level, defaulting to warn.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn
	}
	return l
}

// Run executes cmd with args and returns the process exit code. Errors are
// reported on the command's error stream.
func Run(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	// cobra falls back to os.Args on nil.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	stderr := cmd.ErrOrStderr()

	var usageErr *seed.UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Error: %s\n", usageErr.Msg)
		for _, h := range usageErr.Hints {
			fmt.Fprintln(stderr, h)
		}
		return 1
	}

	slog.Error("command failed", "cmd", cmd.Name(), "err", err)
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
