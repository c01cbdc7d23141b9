package diff

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	headerRe = regexp.MustCompile(`^diff --git a/(.+?) b/(.+)$`)
	hunkRe   = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
)

// Parse converts unified-diff text into one File per "diff --git" block.
// Empty or whitespace-only input yields no files. Blocks whose header cannot
// be read are skipped.
func Parse(text string) []File {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var files []File
	for _, block := range splitBlocks(text) {
		if f, ok := parseBlock(block); ok {
			files = append(files, f)
		}
	}
	return files
}

// ParseFile parses text that is expected to describe a single file and
// returns its first file, or false when the text holds none.
func ParseFile(text string) (File, bool) {
	files := Parse(text)
	if len(files) == 0 {
		return File{}, false
	}
	return files[0], true
}

// splitBlocks cuts the diff into per-file line groups. Anything before the
// first header becomes its own block and is rejected by parseBlock.
func splitBlocks(text string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "diff --git") && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// parseBlock is the only place malformed input is tolerated: a block whose
// first line is not a "diff --git a/<old> b/<new>" header returns false, and
// unrecognised lines inside a hunk are skipped.
func parseBlock(lines []string) (File, bool) {
	if len(lines) == 0 {
		return File{}, false
	}
	oldPath, newPath, ok := splitHeader(lines[0])
	if !ok {
		return File{}, false
	}

	f := File{OldPath: oldPath, NewPath: newPath}
	var isNew, isDeleted, hasRename bool
	var hunk *Hunk
	var oldLine, newLine int

	flush := func() {
		if hunk != nil {
			f.Hunks = append(f.Hunks, *hunk)
			hunk = nil
		}
	}

	for _, line := range lines[1:] {
		if hm := hunkRe.FindStringSubmatch(line); hm != nil {
			flush()
			hunk = &Hunk{
				OldStart: atoi(hm[1]),
				OldLines: countOrOne(hm[2]),
				NewStart: atoi(hm[3]),
				NewLines: countOrOne(hm[4]),
			}
			oldLine, newLine = hunk.OldStart, hunk.NewStart
			continue
		}

		if hunk == nil {
			switch {
			case strings.HasPrefix(line, "deleted file mode"):
				isDeleted = true
			case strings.HasPrefix(line, "new file mode"):
				isNew = true
			case strings.HasPrefix(line, "rename from "):
				hasRename = true
				f.OldPath = strings.TrimPrefix(line, "rename from ")
			case strings.HasPrefix(line, "rename to "):
				f.NewPath = strings.TrimPrefix(line, "rename to ")
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			hunk.Lines = append(hunk.Lines, Line{
				Type:          LineAdded,
				Content:       line[1:],
				NewLineNumber: intPtr(newLine),
			})
			newLine++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			hunk.Lines = append(hunk.Lines, Line{
				Type:          LineRemoved,
				Content:       line[1:],
				OldLineNumber: intPtr(oldLine),
			})
			oldLine++
		case strings.HasPrefix(line, " "):
			hunk.Lines = append(hunk.Lines, Line{
				Type:          LineContext,
				Content:       line[1:],
				OldLineNumber: intPtr(oldLine),
				NewLineNumber: intPtr(newLine),
			})
			oldLine++
			newLine++
		}
		// "\ No newline at end of file" and anything else is ignored.
	}
	flush()

	switch {
	case isDeleted:
		f.Status = StatusDeleted
	case isNew:
		f.Status = StatusAdded
	case hasRename || f.OldPath != f.NewPath:
		f.Status = StatusRenamed
	default:
		f.Status = StatusModified
	}
	f.Additions, f.Deletions = CountLines(f.Hunks)
	return f, true
}

// splitHeader reads the two paths of a "diff --git" line. A path that itself
// contains " b/" is ambiguous; when both sides name the same file the line
// is split at its midpoint, and otherwise at the first " b/". Renames are
// corrected afterwards by their "rename from"/"rename to" lines.
func splitHeader(line string) (oldPath, newPath string, ok bool) {
	rest, found := strings.CutPrefix(line, "diff --git ")
	if !found {
		return "", "", false
	}
	// "a/" + p + " b/" + p
	if n := len(rest) - len("a/ b/"); n > 0 && n%2 == 0 {
		p := rest[2 : 2+n/2]
		if rest == "a/"+p+" b/"+p {
			return p, p, true
		}
	}
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func countOrOne(s string) int {
	if s == "" {
		return 1
	}
	return atoi(s)
}

func intPtr(n int) *int {
	return &n
}
