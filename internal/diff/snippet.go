package diff

import (
	"fmt"
	"strings"
)

// snippetContext is the number of lines shown on each side of a match.
const snippetContext = 2

// FindSnippet returns the diff lines surrounding lineNumber in f, rendered
// with their +/-/space prefixes. Removed lines are looked up by old line
// number, everything else by new line number. An empty kind matches any line
// kind. The bool is false when no hunk contains the line.
func FindSnippet(f File, lineNumber int, kind LineKind) (string, bool) {
	for _, h := range f.Hunks {
		for i, l := range h.Lines {
			if !lineMatches(l, lineNumber, kind) {
				continue
			}
			start := max(0, i-snippetContext)
			end := min(len(h.Lines), i+snippetContext+1)
			return FormatLines(h.Lines[start:end]), true
		}
	}
	return "", false
}

func lineMatches(l Line, lineNumber int, kind LineKind) bool {
	if kind != "" && l.Type != kind {
		return false
	}
	num := l.NewLineNumber
	if kind == LineRemoved {
		num = l.OldLineNumber
	}
	return num != nil && *num == lineNumber
}

// FormatLines renders lines as unified-diff body text, one per line.
func FormatLines(lines []Line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Type.Prefix() + l.Content
	}
	return strings.Join(out, "\n")
}

// Header returns the hunk's "@@ -o,ol +n,nl @@" line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
}
