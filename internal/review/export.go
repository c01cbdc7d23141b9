package review

import (
	"context"

	"github.com/dshills/selfreview/internal/diff"
)

// BuildExport gathers a review and its comments. Each comment anchored to a
// line carries the diff lines around it. Hunks that fail to load only cost
// the snippet; the failure is logged.
func (m *Manager) BuildExport(ctx context.Context, id string, opts ExportOptions) (*Export, error) {
	d, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := m.store.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}

	hunks := make(map[string][]diff.Hunk)
	out := &Export{Review: *d, Comments: make([]ExportComment, 0, len(comments))}
	for _, c := range comments {
		c.Content = opts.Redact.Text(c.Content)
		ec := ExportComment{Comment: c}
		if c.LineNumber != nil {
			ec.Snippet = m.snippet(ctx, id, c.FilePath, *c.LineNumber, lineKind(c.LineType), hunks)
			if ec.Snippet != "" {
				ec.Snippet = opts.Redact.Snippet(c.FilePath, ec.Snippet)
			}
		}
		out.Comments = append(out.Comments, ec)
	}
	return out, nil
}

// snippet locates a comment's line, loading each file's hunks at most once.
func (m *Manager) snippet(ctx context.Context, id, path string, line int, kind diff.LineKind, loaded map[string][]diff.Hunk) string {
	hunks, ok := loaded[path]
	if !ok {
		var err error
		hunks, err = m.FileHunks(ctx, id, path)
		if err != nil {
			m.logger.Warn("loading hunks for export", "review", id, "path", path, "error", err)
		}
		loaded[path] = hunks
	}
	s, _ := diff.FindSnippet(diff.File{Hunks: hunks}, line, kind)
	return s
}

func lineKind(s *string) diff.LineKind {
	if s == nil {
		return ""
	}
	return diff.LineKind(*s)
}
