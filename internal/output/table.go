package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dshills/selfreview/internal/cache"
	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/review"
)

// filesTable lists a review's files with their change counts.
func filesTable(files []diff.File) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"STATUS", "PATH", "+", "-"})
	for _, f := range files {
		tw.AppendRow(table.Row{f.Status, filePath(f), f.Additions, f.Deletions})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	return tw
}

// reviewsTable is one row per review of a list page.
func reviewsTable(reviews []review.Details) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"ID", "CREATED", "SOURCE", "STATUS", "FILES", "+", "-"})
	for _, d := range reviews {
		tw.AppendRow(table.Row{
			d.ID,
			d.CreatedAt.Local().Format("2006-01-02 15:04"),
			sourceLabel(d),
			d.Status,
			d.Summary.TotalFiles,
			d.Summary.TotalAdditions,
			d.Summary.TotalDeletions,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	return tw
}

// WriteCacheStats renders cache statistics as a two-column table.
func WriteCacheStats(w io.Writer, s cache.Stats) error {
	tw := table.NewWriter()
	tw.AppendRows([]table.Row{
		{"Directory", s.Dir},
		{"Enabled", s.Enabled},
		{"Entries", s.Entries},
		{"Expired", s.Expired},
		{"Size", fmt.Sprintf("%d bytes", s.TotalBytes)},
	})
	tw.SetStyle(table.StyleLight)
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func sourceLabel(d review.Details) string {
	if d.SourceRef == "" {
		return string(d.SourceType)
	}
	return fmt.Sprintf("%s:%s", d.SourceType, shortRef(d.SourceRef))
}

// shortRef trims full SHAs in a comma-joined list.
func shortRef(ref string) string {
	parts := strings.Split(ref, ",")
	for i, p := range parts {
		if len(p) == 40 {
			parts[i] = p[:8]
		}
	}
	return strings.Join(parts, ",")
}

func filePath(f diff.File) string {
	if f.Status == diff.StatusRenamed && f.OldPath != f.NewPath {
		return f.OldPath + " => " + f.NewPath
	}
	return f.Path()
}
