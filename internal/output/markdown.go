package output

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/review"
)

// MarkdownWriter outputs markdown for pasting into a PR or issue.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Review(w io.Writer, d *review.Details) error {
	ew := &errWriter{w: w}
	writeMarkdownHeader(ew, d)
	return ew.err
}

func (m *MarkdownWriter) List(w io.Writer, l *review.ListResult) error {
	ew := &errWriter{w: w}
	ew.printf("## Reviews (%d)\n\n", l.Total)
	if len(l.Reviews) > 0 {
		ew.println(reviewsTable(l.Reviews).RenderMarkdown())
	}
	return ew.err
}

func (m *MarkdownWriter) Hunks(w io.Writer, path string, hunks []diff.Hunk) error {
	ew := &errWriter{w: w}
	ew.printf("### `%s`\n\n", path)
	if len(hunks) == 0 {
		ew.println("_No hunks._")
		return ew.err
	}
	ew.println("```diff")
	for _, h := range hunks {
		ew.println(h.Header())
		ew.println(diff.FormatLines(h.Lines))
	}
	ew.println("```")
	return ew.err
}

func (m *MarkdownWriter) Export(w io.Writer, e *review.Export) error {
	ew := &errWriter{w: w}
	writeMarkdownHeader(ew, &e.Review)

	ew.printf("\n### Comments (%d)\n\n", len(e.Comments))
	if len(e.Comments) == 0 {
		ew.println("_No comments._")
		return ew.err
	}
	for _, c := range e.Comments {
		ew.printf("**`%s`**\n\n", commentLocation(c))
		ew.printf("> %s\n\n", strings.ReplaceAll(c.Content, "\n", "\n> "))
		if c.Snippet != "" {
			ew.printf("```diff\n%s\n```\n\n", c.Snippet)
		}
		ew.println("---")
		ew.println("")
	}
	return ew.err
}

func writeMarkdownHeader(ew *errWriter, d *review.Details) {
	ew.printf("## Review `%s`\n\n", shortID(d.ID))
	ew.printf("- **Status:** %s\n", d.Status)
	ew.printf("- **Source:** %s\n", sourceLabel(*d))
	ew.printf("- **Repository:** `%s`\n", filepath.Base(d.RepositoryPath))
	if d.BaseRef != "" {
		ew.printf("- **Base:** `%s`\n", d.BaseRef)
	}
	s := d.Summary
	ew.printf("- **Changes:** %d files, +%d -%d\n\n", s.TotalFiles, s.TotalAdditions, s.TotalDeletions)
	if len(d.Files) > 0 {
		ew.println(filesTable(d.Files).RenderMarkdown())
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
