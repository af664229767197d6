package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/aretw0/robotstudio"
	"github.com/aretw0/robotstudio/internal/presentation/console"
	"github.com/aretw0/robotstudio/pkg/observability"
	"github.com/aretw0/robotstudio/pkg/program"
	"github.com/aretw0/robotstudio/pkg/runner"
	"github.com/aretw0/robotstudio/pkg/workspace"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <program.yaml>",
	Short: "Run a block program in the terminal",
	Long: `Loads a program file, runs it against the simulated robot and streams the
execution log. Ctrl+C stops the run; a second Ctrl+C aborts pending waits.`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Emit frames as JSON lines")
	runCmd.Flags().Bool("plain", false, "Disable colours and the banner")
	runCmd.Flags().Float64("time-scale", 1, "Multiply every simulated duration (0 runs instantly)")
	runCmd.Flags().Duration("timeout", 0, "Stop the run after this long (0 waits for completion)")
	runCmd.Flags().Uint64("seed", 0, "Seed the sensor noise for reproducible runs (0 picks one)")
	addStoreFlags(runCmd)
}

func runProgram(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	prog, err := program.Load(args[0])
	if err != nil {
		return err
	}
	if issues := program.Validate(prog.Blocks); program.HasErrors(issues) {
		return fmt.Errorf("program is invalid:\n%s", formatIssues(issues))
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	plain, _ := cmd.Flags().GetBool("plain")
	scale, _ := cmd.Flags().GetFloat64("time-scale")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	seed, _ := cmd.Flags().GetUint64("seed")

	out := cmd.OutOrStdout()
	plain = plain || !runner.IsTerminal(out)

	var handler runner.FrameHandler
	if jsonOut {
		handler = runner.NewJSONHandler(out)
	} else {
		if !plain {
			console.PrintBanner(out, robotstudio.Version)
		}
		handler = runner.NewTextHandler(out, plain)
	}
	r := runner.NewRunner(
		runner.WithHandler(handler),
		runner.WithLogger(logger),
		runner.WithTimeout(timeout),
	)

	opts := []robotstudio.Option{
		robotstudio.WithLogger(logger),
		robotstudio.WithTimeScale(scale),
		robotstudio.WithLifecycleHooks(r.Hooks()),
		robotstudio.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	if seed != 0 {
		opts = append(opts, robotstudio.WithRandom(rand.New(rand.NewPCG(seed, seed))))
	}

	store, err := openStore(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, robotstudio.WithSnapshotStore(store))
		logger.Info("mirroring frames to redis", "channel", store.Channel())
	}

	ws := workspace.New(robotstudio.New(opts...), workspace.WithProgram(prog), workspace.WithLogger(logger))
	outcome, err := r.Run(cmd.Context(), ws)
	if err != nil {
		return err
	}
	logger.Info("program finished", "program", args[0], "outcome", outcome)
	return nil
}

func formatIssues(issues []program.Issue) string {
	var sb strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&sb, "  - %s\n", issue.Error())
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
