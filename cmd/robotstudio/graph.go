package main

import (
	"fmt"

	"github.com/aretw0/robotstudio/internal/presentation/graph"
	"github.com/aretw0/robotstudio/pkg/program"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <program.yaml>",
	Short: "Export the program as a flowchart",
	Long:  `Loads a program file and outputs a Mermaid diagram (graph TD) with one node per block.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := program.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(prog.Blocks, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
