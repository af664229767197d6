package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/robotstudio/pkg/catalog"
	"github.com/aretw0/robotstudio/pkg/domain"
)

// Overlay marks run progress on the diagram. Indexes are 1-based like the
// execution log; 0 means none.
type Overlay struct {
	Executed int // blocks 1..Executed are done
	Current  int
}

// GenerateMermaid produces a Mermaid flowchart of a program, one node per block
// chained in execution order. Shapes follow the block category:
// - Motion: [Rectangle]
// - Control: {{Hexagon}}
// - Sensor: [/Parallelogram/]
// - Advanced: [[Subroutine]]
// - Unknown types: (Rounded)
func GenerateMermaid(blocks []domain.Block, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"start\"))\n")

	prev := "start"
	for i, b := range blocks {
		id := fmt.Sprintf("b%d", i+1)

		opener, closer := "(", ")"
		_, category, known := catalog.Lookup(b.Type)
		if known {
			switch category {
			case catalog.Motion:
				opener, closer = "[", "]"
			case catalog.Control:
				opener, closer = "{{", "}}"
			case catalog.Sensor:
				opener, closer = "[/", "/]"
			case catalog.Advanced:
				opener, closer = "[[", "]]"
			}
		}

		label := fmt.Sprintf("%d. %s", i+1, escape(b.Label))
		if b.Value != nil {
			label = fmt.Sprintf("%s <br/> %s", label, escape(fmt.Sprint(b.Value)))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		prev = id
	}
	sb.WriteString("    finish((\"end\"))\n")
	fmt.Fprintf(&sb, "    %s --> finish\n", prev)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme
		sb.WriteString("    classDef executed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for i := 1; i <= overlay.Executed && i <= len(blocks); i++ {
			fmt.Fprintf(&sb, "    class b%d executed;\n", i)
		}
		if overlay.Current > 0 && overlay.Current <= len(blocks) {
			fmt.Fprintf(&sb, "    class b%d current;\n", overlay.Current)
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
