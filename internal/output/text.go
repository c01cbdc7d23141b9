package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/review"
)

// TextWriter outputs human-readable text.
type TextWriter struct{}

func (t *TextWriter) Review(w io.Writer, d *review.Details) error {
	ew := &errWriter{w: w}
	writeHeader(ew, d)
	if len(d.Files) > 0 {
		ew.println(filesTable(d.Files).Render())
	}
	return ew.err
}

func (t *TextWriter) List(w io.Writer, l *review.ListResult) error {
	ew := &errWriter{w: w}
	if len(l.Reviews) == 0 {
		ew.println("No reviews.")
		return ew.err
	}
	ew.println(reviewsTable(l.Reviews).Render())
	ew.printf("Page %d, %d of %d reviews\n", l.Page, len(l.Reviews), l.Total)
	return ew.err
}

func (t *TextWriter) Hunks(w io.Writer, path string, hunks []diff.Hunk) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n", path)
	if len(hunks) == 0 {
		ew.println("(no hunks)")
		return ew.err
	}
	for _, h := range hunks {
		ew.println(h.Header())
		ew.println(diff.FormatLines(h.Lines))
	}
	return ew.err
}

func (t *TextWriter) Export(w io.Writer, e *review.Export) error {
	ew := &errWriter{w: w}
	writeHeader(ew, &e.Review)
	if len(e.Review.Files) > 0 {
		ew.println(filesTable(e.Review.Files).Render())
	}
	ew.printf("\nComments: %d\n", len(e.Comments))
	for _, c := range e.Comments {
		ew.printf("\n%s\n", commentLocation(c))
		for _, line := range strings.Split(c.Content, "\n") {
			ew.printf("    %s\n", line)
		}
		if c.Snippet != "" {
			for _, line := range strings.Split(c.Snippet, "\n") {
				ew.printf("    | %s\n", line)
			}
		}
	}
	return ew.err
}

func writeHeader(ew *errWriter, d *review.Details) {
	ew.printf("Review %s [%s]\n", d.ID, d.Status)
	ew.printf("Source: %s\n", sourceLabel(*d))
	ew.printf("Repository: %s", d.RepositoryPath)
	if d.Repository.Branch != "" {
		ew.printf(" (branch: %s)", d.Repository.Branch)
	}
	ew.println("")
	if d.BaseRef != "" {
		ew.printf("Base: %s\n", d.BaseRef)
	}
	ew.printf("Created: %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	ew.println(strings.Repeat("─", 60))
	s := d.Summary
	ew.printf("%d files changed, +%d -%d (%d added, %d modified, %d deleted, %d renamed)\n",
		s.TotalFiles, s.TotalAdditions, s.TotalDeletions,
		s.FilesAdded, s.FilesModified, s.FilesDeleted, s.FilesRenamed)
}

func commentLocation(c review.ExportComment) string {
	loc := c.FilePath
	if c.LineNumber != nil {
		loc += ":" + strconv.Itoa(*c.LineNumber)
		if c.LineType != nil {
			loc += " (" + *c.LineType + ")"
		}
	}
	return loc
}
