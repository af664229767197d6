package main

import (
	"fmt"

	"github.com/aretw0/robotstudio/internal/presentation/console"
	"github.com/aretw0/robotstudio/pkg/catalog"
	"github.com/aretw0/robotstudio/pkg/runner"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the blocks a program can use",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		out := cmd.OutOrStdout()

		doc := catalog.Markdown()
		if raw || !runner.IsTerminal(out) {
			fmt.Fprint(out, doc)
			return nil
		}

		rendered, err := console.NewRenderer(80)(doc)
		if err != nil {
			return fmt.Errorf("failed to render catalog: %w", err)
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().Bool("raw", false, "Print the markdown source")
}
