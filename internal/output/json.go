package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/review"
)

// JSONWriter outputs indented JSON using the wire field names.
type JSONWriter struct{}

func (j *JSONWriter) Review(w io.Writer, d *review.Details) error { return writeJSON(w, d) }

func (j *JSONWriter) List(w io.Writer, l *review.ListResult) error { return writeJSON(w, l) }

func (j *JSONWriter) Hunks(w io.Writer, path string, hunks []diff.Hunk) error {
	if hunks == nil {
		hunks = []diff.Hunk{}
	}
	return writeJSON(w, struct {
		Path  string      `json:"path"`
		Hunks []diff.Hunk `json:"hunks"`
	}{path, hunks})
}

func (j *JSONWriter) Export(w io.Writer, e *review.Export) error { return writeJSON(w, e) }

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
