package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dshills/selfreview/internal/cache"
	"github.com/dshills/selfreview/internal/diff"
	"github.com/dshills/selfreview/internal/gitctx"
	"github.com/dshills/selfreview/internal/review"
	"github.com/dshills/selfreview/internal/store"
)

const sampleDiff = "diff --git a/main.go b/main.go\n" +
	"--- a/main.go\n" +
	"+++ b/main.go\n" +
	"@@ -1,2 +1,3 @@\n" +
	" package main\n" +
	"+import \"os\"\n" +
	" func main() {}\n" +
	"diff --git a/old.txt b/new.txt\n" +
	"similarity index 100%\n" +
	"rename from old.txt\n" +
	"rename to new.txt\n"

func sampleDetails() *review.Details {
	files := diff.Parse(sampleDiff)
	for i := range files {
		files[i].Hunks = nil
	}
	return &review.Details{
		ID:              "3f2a9c1e-0000-4000-8000-000000000001",
		RepositoryPath:  "/work/demo",
		BaseRef:         "abc123",
		SourceType:      review.SourceCommits,
		SourceRef:       "0123456789abcdef0123456789abcdef01234567,deadbeef",
		Status:          review.StatusInProgress,
		SnapshotVersion: 2,
		Repository:      gitctx.RepoMeta{Root: "/work/demo", Head: "abc123", Branch: "main"},
		Files:           files,
		Summary:         diff.Summarize(files),
		CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleExport() *review.Export {
	line := 2
	kind := "added"
	return &review.Export{
		Review: *sampleDetails(),
		Comments: []review.ExportComment{
			{
				Comment: store.Comment{ID: "c1", FilePath: "main.go", LineNumber: &line, LineType: &kind, Content: "why os?"},
				Snippet: " package main\n+import \"os\"\n func main() {}",
			},
			{Comment: store.Comment{ID: "c2", FilePath: "new.txt", Content: "rename looks fine"}},
		},
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"text", "json", "markdown"} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q) error: %v", format, err)
		}
	}
	if _, err := GetWriter("sarif"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestTextWriter_Review(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Review(&buf, sampleDetails()); err != nil {
		t.Fatalf("Review error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Review 3f2a9c1e-0000-4000-8000-000000000001 [in_progress]",
		"Source: commits:01234567,deadbeef",
		"(branch: main)",
		"2 files changed, +1 -0 (0 added, 1 modified, 0 deleted, 1 renamed)",
		"old.txt => new.txt",
		"STATUS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextWriter_List(t *testing.T) {
	var buf bytes.Buffer
	w := &TextWriter{}
	if err := w.List(&buf, &review.ListResult{Reviews: []review.Details{}, Page: 1, PageSize: 20}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No reviews.") {
		t.Errorf("empty list output = %q", buf.String())
	}

	buf.Reset()
	l := &review.ListResult{Reviews: []review.Details{*sampleDetails()}, Total: 3, Page: 2, PageSize: 1}
	if err := w.List(&buf, l); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "3f2a9c1e") || !strings.Contains(out, "Page 2, 1 of 3 reviews") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestTextWriter_Hunks(t *testing.T) {
	hunks := diff.Parse(sampleDiff)[0].Hunks
	var buf bytes.Buffer
	if err := (&TextWriter{}).Hunks(&buf, "main.go", hunks); err != nil {
		t.Fatal(err)
	}
	want := "main.go\n@@ -1,2 +1,3 @@\n package main\n+import \"os\"\n func main() {}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := (&TextWriter{}).Hunks(&buf, "new.txt", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(no hunks)") {
		t.Errorf("got %q", buf.String())
	}
}

func TestTextWriter_Export(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Export(&buf, sampleExport()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Comments: 2", "main.go:2 (added)", "    why os?", "    | +import \"os\"", "new.txt\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Review(&buf, sampleDetails()); err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	summary, ok := got["summary"].(map[string]any)
	if !ok {
		t.Fatalf("summary missing: %v", got)
	}
	if summary["totalFiles"] != float64(2) || summary["filesRenamed"] != float64(1) {
		t.Errorf("summary = %v", summary)
	}
	files := got["files"].([]any)
	first := files[0].(map[string]any)
	if _, ok := first["hunks"]; ok {
		t.Error("details files should not carry hunks")
	}

	buf.Reset()
	if err := (&JSONWriter{}).Hunks(&buf, "new.txt", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"hunks": []`) {
		t.Errorf("nil hunks should render as an empty array: %s", buf.String())
	}

	buf.Reset()
	hunks := diff.Parse(sampleDiff)[0].Hunks
	if err := (&JSONWriter{}).Hunks(&buf, "main.go", hunks); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"oldStart": 1`, `"newLines": 3`, `"type": "added"`, `"newLineNumber": 2`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("hunks JSON missing %s:\n%s", key, buf.String())
		}
	}
}

func TestMarkdownWriter_Export(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Export(&buf, sampleExport()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"## Review `3f2a9c1e`",
		"- **Status:** in_progress",
		"- **Repository:** `demo`",
		"| STATUS |",
		"### Comments (2)",
		"**`main.go:2 (added)`**",
		"> why os?",
		"```diff\n package main\n+import \"os\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriter_Hunks(t *testing.T) {
	var buf bytes.Buffer
	hunks := diff.Parse(sampleDiff)[0].Hunks
	if err := (&MarkdownWriter{}).Hunks(&buf, "main.go", hunks); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "### `main.go`\n\n```diff\n@@ -1,2 +1,3 @@\n") {
		t.Errorf("got %q", buf.String())
	}
}

func TestShortRef(t *testing.T) {
	tests := []struct{ in, want string }{
		{"feature/x", "feature/x"},
		{"0123456789abcdef0123456789abcdef01234567", "01234567"},
		{"0123456789abcdef0123456789abcdef01234567,abc", "01234567,abc"},
	}
	for _, tt := range tests {
		if got := shortRef(tt.in); got != tt.want {
			t.Errorf("shortRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCacheStats(t *testing.T) {
	var buf bytes.Buffer
	stats := cache.Stats{Dir: "/tmp/sr", Enabled: true, Entries: 3, Expired: 1, TotalBytes: 2048}
	if err := WriteCacheStats(&buf, stats); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"/tmp/sr", "Entries", "2048 bytes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
