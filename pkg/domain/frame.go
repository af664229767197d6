package domain

// Frame is one observable update of the engine: the state after a change plus
// the log lines appended by that change.
type Frame struct {
	// Sequence increases by one for every frame an engine publishes.
	Sequence uint64 `json:"sequence"`

	// Generation identifies the run that produced the frame.
	Generation uint64 `json:"generation"`

	State RobotState `json:"state"`

	// ResetLog is true for the first frame of a run: observers must drop
	// previously received lines before appending Lines.
	ResetLog bool `json:"reset_log,omitempty"`

	Lines []string `json:"lines,omitempty"`
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := *f
	out.State = f.State.Snapshot()
	if f.Lines != nil {
		out.Lines = append([]string(nil), f.Lines...)
	}
	return &out
}
