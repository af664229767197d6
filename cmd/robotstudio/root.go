package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/robotstudio/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "robotstudio",
	Short: "RobotStudio runs block programs against a simulated robot",
	Long: `RobotStudio executes ordered instruction blocks (motion, waits, sensor reads)
against a simulated wheeled robot, arm, drone or humanoid, streaming the
execution log as it goes.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
}

// setupLogger builds the application logger from the persistent flags.
// The returned func closes the log file, if any.
func setupLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	level, _ := cmd.Flags().GetString("log-level")
	path, _ := cmd.Flags().GetString("log-file")

	var opts []logging.Option
	closer := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		opts = append(opts, logging.WithJSON(f))
		closer = func() { _ = f.Close() }
	}
	return logging.New(logging.ParseLevel(level), opts...), closer, nil
}
