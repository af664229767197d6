package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/robotstudio"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of robotstudio",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "robotstudio version %s\n", strings.TrimSpace(robotstudio.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
