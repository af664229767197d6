package console

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the RobotStudio banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Teal to violet, matching the accent used for log lines
	colors := []string{"#22d3ee", "#38bdf8", "#818cf8", "#a78bfa"}
	lines := []string{
		"  ___     _         _   ___ _           _ _    ",
		" | _ \\___| |__  ___| |_/ __| |_ _  _ __| (_)___",
		" |   / _ \\ '_ \\/ _ \\  _\\__ \\  _| || / _` | / _ \\",
		" |_|_\\___/_.__/\\___/\\__|___/\\__|\\_,_\\__,_|_\\___/",
	}

	fmt.Fprintln(w)
	for i, l := range lines {
		fmt.Fprintln(w, out.String(l).Foreground(out.Color(colors[i])))
	}
	fmt.Fprintln(w, out.String("  Configure • Code • Simulate   "+version).Faint())
	fmt.Fprintln(w)
}
