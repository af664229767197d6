package main

import (
	"fmt"

	"github.com/aretw0/robotstudio/pkg/program"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <program.yaml>",
	Short: "Check a program without running it",
	Long:  `Parses a program file and reports duplicate ids, inert block types and values the engine will ignore.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := program.Load(args[0])
		if err != nil {
			return err
		}

		issues := program.Validate(prog.Blocks)
		if program.HasErrors(issues) {
			return fmt.Errorf("validation failed:\n%s", formatIssues(issues))
		}

		out := cmd.OutOrStdout()
		if len(issues) > 0 {
			fmt.Fprintf(out, "%s\n", formatIssues(issues))
		}
		fmt.Fprintf(out, "Program is valid! ✅ (%d blocks, %d warnings)\n", len(prog.Blocks), len(issues))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
