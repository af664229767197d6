package runtime

import "slices"

// DetailPrefix marks indented sub-lines of the execution log.
const DetailPrefix = "  → "

// journal is the append-only execution log. Guarded by Engine.mu.
type journal struct {
	lines []string
}

func (j *journal) add(line string) {
	j.lines = append(j.lines, line)
}

func (j *journal) detail(text string) {
	j.add(DetailPrefix + text)
}

// reset starts a fresh backing array so copies handed out earlier stay intact.
func (j *journal) reset() {
	j.lines = nil
}

func (j *journal) len() int {
	return len(j.lines)
}

func (j *journal) since(mark int) []string {
	if mark >= len(j.lines) {
		return nil
	}
	return slices.Clone(j.lines[mark:])
}

func (j *journal) snapshot() []string {
	return slices.Clone(j.lines)
}
