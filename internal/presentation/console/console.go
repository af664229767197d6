// Package console renders the execution console and stats overlay for terminals.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Placeholder is shown while the log is empty.
const Placeholder = `Ready. Click "Run Program" to start.`

const (
	accent = "#22d3ee"
	muted  = "#94a3b8"
)

// Console writes log lines with the execution console styling: block headers
// in the accent colour, everything else muted.
type Console struct {
	out *termenv.Output
	w   io.Writer
}

// New creates a console on w. Colour support is detected from w unless
// plain is set.
func New(w io.Writer, plain bool) *Console {
	var opts []termenv.OutputOption
	if plain {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &Console{out: termenv.NewOutput(w, opts...), w: w}
}

// Style returns line decorated for the console.
func (c *Console) Style(line string) string {
	color := muted
	if strings.HasPrefix(line, "[") {
		color = accent
	}
	return c.out.String(line).Foreground(c.out.Color(color)).String()
}

// Line writes one styled log line.
func (c *Console) Line(line string) {
	fmt.Fprintln(c.w, c.Style(line))
}

// Log writes a whole log, or the placeholder when it is empty.
func (c *Console) Log(lines []string) {
	if len(lines) == 0 {
		fmt.Fprintln(c.w, c.out.String(Placeholder).Faint())
		return
	}
	for _, l := range lines {
		c.Line(l)
	}
}

// Overlay writes the stats overlay as "Label: value" lines, the value in
// the accent colour.
func (c *Console) Overlay(lines []string) {
	for _, l := range lines {
		label, value, ok := strings.Cut(l, ": ")
		if !ok {
			fmt.Fprintln(c.w, l)
			continue
		}
		fmt.Fprintf(c.w, "%s %s\n",
			c.out.String(label+":").Foreground(c.out.Color(muted)),
			c.out.String(value).Foreground(c.out.Color(accent)))
	}
}
