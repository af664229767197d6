package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/robotstudio/internal/presentation/console"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/workspace"
)

// TextHandler prints the execution console.
type TextHandler struct {
	Writer  io.Writer
	Console *console.Console
	// Overlay prints the stats overlay when the run ends.
	Overlay bool
}

// NewTextHandler creates a handler for styled text output.
// Colour is disabled when plain is set.
func NewTextHandler(w io.Writer, plain bool) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{
		Writer:  w,
		Console: console.New(w, plain),
		Overlay: true,
	}
}

func (h *TextHandler) Frame(ctx context.Context, frame *domain.Frame) error {
	for _, line := range frame.Lines {
		h.Console.Line(line)
	}
	return nil
}

func (h *TextHandler) Finish(ctx context.Context, outcome domain.RunOutcome, view workspace.View) error {
	if outcome != domain.OutcomeCompleted {
		fmt.Fprintf(h.Writer, "Run %s\n", outcome)
	}
	if h.Overlay {
		fmt.Fprintln(h.Writer)
		h.Console.Overlay(workspace.OverlayLines(view))
	}
	return nil
}
