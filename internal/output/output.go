package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/review"
)

// Writer renders review data in one format.
type Writer interface {
	Review(w io.Writer, d *review.Details) error
	List(w io.Writer, l *review.ListResult) error
	Hunks(w io.Writer, path string, hunks []diff.Hunk) error
	Export(w io.Writer, e *review.Export) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Create returns a writer for outPath, or stdout when outPath is empty. The
// returned close function must be called when done.
func Create(outPath string) (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
