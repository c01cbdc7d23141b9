package diff

// LineKind classifies a line inside a hunk.
type LineKind string

const (
	LineAdded   LineKind = "added"
	LineRemoved LineKind = "removed"
	LineContext LineKind = "context"
)

// Prefix returns the unified-diff marker for the kind.
func (k LineKind) Prefix() string {
	switch k {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// Valid reports whether k is one of the known kinds.
func (k LineKind) Valid() bool {
	return k == LineAdded || k == LineRemoved || k == LineContext
}

// FileStatus describes what happened to a file.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
)

// Line is a single classified diff line. Added lines carry only a new line
// number, removed lines only an old one, context lines both.
type Line struct {
	Type          LineKind `json:"type"`
	Content       string   `json:"content"`
	OldLineNumber *int     `json:"oldLineNumber,omitempty"`
	NewLineNumber *int     `json:"newLineNumber,omitempty"`
}

// Hunk is one "@@ ... @@" block.
type Hunk struct {
	OldStart int    `json:"oldStart"`
	OldLines int    `json:"oldLines"`
	NewStart int    `json:"newStart"`
	NewLines int    `json:"newLines"`
	Lines    []Line `json:"lines"`
}

// File is the parsed diff of a single path.
type File struct {
	OldPath   string     `json:"oldPath"`
	NewPath   string     `json:"newPath"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Hunks     []Hunk     `json:"hunks,omitempty"`
}

// Path returns the path a file is addressed by: the new path, or the old one
// for deletions that carry no new path.
func (f File) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// Summary aggregates a file list.
type Summary struct {
	TotalFiles     int `json:"totalFiles"`
	TotalAdditions int `json:"totalAdditions"`
	TotalDeletions int `json:"totalDeletions"`
	FilesAdded     int `json:"filesAdded"`
	FilesModified  int `json:"filesModified"`
	FilesDeleted   int `json:"filesDeleted"`
	FilesRenamed   int `json:"filesRenamed"`
}

// CountLines returns the number of added and removed lines across hunks.
func CountLines(hunks []Hunk) (additions, deletions int) {
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				additions++
			case LineRemoved:
				deletions++
			}
		}
	}
	return additions, deletions
}
