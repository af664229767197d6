package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/workspace"
)

// Event is one JSON line emitted by JSONHandler.
type Event struct {
	Type    string            `json:"type"` // "frame" or "finish"
	Frame   *domain.Frame     `json:"frame,omitempty"`
	Outcome domain.RunOutcome `json:"outcome,omitempty"`
	View    *workspace.View   `json:"view,omitempty"`
}

// JSONHandler implements FrameHandler for structured JSON-Lines output.
type JSONHandler struct {
	mu      sync.Mutex
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler writing JSON lines to w.
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{Encoder: json.NewEncoder(w)}
}

func (h *JSONHandler) Frame(ctx context.Context, frame *domain.Frame) error {
	return h.emit(Event{Type: "frame", Frame: frame})
}

func (h *JSONHandler) Finish(ctx context.Context, outcome domain.RunOutcome, view workspace.View) error {
	return h.emit(Event{Type: "finish", Outcome: outcome, View: &view})
}

func (h *JSONHandler) emit(e Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(e)
}
