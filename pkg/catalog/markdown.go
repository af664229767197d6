package catalog

import (
	"fmt"
	"strings"
)

// Markdown renders the palette as a markdown document, one table per category.
func Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Block Catalog\n")
	for _, c := range Categories() {
		fmt.Fprintf(&sb, "\n## %s\n\n", c.Title())
		sb.WriteString("| Type | Label | Default |\n")
		sb.WriteString("|---|---|---|\n")
		for _, tpl := range Templates(c) {
			def := "-"
			if tpl.Value != nil {
				def = fmt.Sprint(tpl.Value)
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", tpl.Type, tpl.Label, def)
		}
	}
	return sb.String()
}
