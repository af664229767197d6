package program

import (
	"fmt"

	"github.com/aretw0/robotstudio/internal/runtime"
	"github.com/aretw0/robotstudio/pkg/domain"
)

// Severity ranks an Issue.
type Severity string

const (
	// SeverityWarning marks a block that runs, but not the way its author may expect.
	SeverityWarning Severity = "warning"
	// SeverityError marks a program that should be fixed before running.
	SeverityError Severity = "error"
)

// Issue is a single finding about a block.
type Issue struct {
	Index    int      `json:"index"` // 1-based position, matching the log numbering
	BlockID  string   `json:"block_id"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("block %d (%s): %s: %s", i.Index, i.BlockID, i.Severity, i.Reason)
}

// Validate inspects blocks without running them. The engine accepts any
// program, so most findings are warnings; duplicate IDs are errors because
// editing operations address blocks by ID.
func Validate(blocks []domain.Block) []Issue {
	var issues []Issue
	seen := make(map[string]int)

	for i, b := range blocks {
		add := func(sev Severity, format string, args ...any) {
			issues = append(issues, Issue{Index: i + 1, BlockID: b.ID, Severity: sev, Reason: fmt.Sprintf(format, args...)})
		}

		if first, dup := seen[b.ID]; dup {
			add(SeverityError, "duplicate id, first used by block %d", first)
		} else {
			seen[b.ID] = i + 1
		}

		if !runtime.HasRule(b.Type) {
			add(SeverityWarning, "type %q has no effect", b.Type)
			continue
		}
		if !runtime.ReadsValue(b.Type) || b.Value == nil {
			continue
		}
		v, ok := runtime.Numeric(b.Value)
		switch {
		case !ok:
			add(SeverityWarning, "value %v is not a number, the default applies", b.Value)
		case v < 0 && b.Type == domain.BlockWait:
			add(SeverityWarning, "negative wait is treated as zero")
		}
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
