package diff

import (
	"strings"
	"testing"
)

// longHunkDiff has a single hunk of nine lines so windows can be checked
// both in the middle and against either edge.
const longHunkDiff = `diff --git a/long.txt b/long.txt
--- a/long.txt
+++ b/long.txt
@@ -1,8 +1,8 @@
 one
 two
 three
-four
+FOUR
 five
 six
 seven
 eight
`

func TestFindSnippet(t *testing.T) {
	f, ok := ParseFile(longHunkDiff)
	if !ok {
		t.Fatal("ParseFile returned no file")
	}

	tests := []struct {
		name   string
		line   int
		kind   LineKind
		want   string
		wantOK bool
	}{
		{
			name:   "added line centered",
			line:   4,
			kind:   LineAdded,
			want:   " three\n-four\n+FOUR\n five\n six",
			wantOK: true,
		},
		{
			name:   "removed line uses old number",
			line:   4,
			kind:   LineRemoved,
			want:   " two\n three\n-four\n+FOUR\n five",
			wantOK: true,
		},
		{
			name:   "clamped at hunk start",
			line:   1,
			kind:   LineContext,
			want:   " one\n two\n three",
			wantOK: true,
		},
		{
			name:   "clamped at hunk end",
			line:   8,
			kind:   "",
			want:   " six\n seven\n eight",
			wantOK: true,
		},
		{
			name:   "unspecified kind matches new number",
			line:   4,
			kind:   "",
			want:   " three\n-four\n+FOUR\n five\n six",
			wantOK: true,
		},
		{
			name:   "kind mismatch",
			line:   2,
			kind:   LineAdded,
			wantOK: false,
		},
		{
			name:   "line outside hunks",
			line:   99,
			kind:   LineContext,
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindSnippet(f, tt.line, tt.kind)
			if ok != tt.wantOK {
				t.Fatalf("FindSnippet ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("FindSnippet =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestFindSnippet_WindowLength(t *testing.T) {
	f, _ := ParseFile(longHunkDiff)
	got, ok := FindSnippet(f, 5, LineContext)
	if !ok {
		t.Fatal("expected a snippet")
	}
	if n := len(strings.Split(got, "\n")); n != 5 {
		t.Errorf("window has %d lines, want 5", n)
	}

	short, _ := ParseFile("diff --git a/s b/s\n--- a/s\n+++ b/s\n@@ -1 +1,2 @@\n x\n+y\n")
	got, ok = FindSnippet(short, 2, LineAdded)
	if !ok {
		t.Fatal("expected a snippet")
	}
	if got != " x\n+y" {
		t.Errorf("short hunk snippet = %q, want %q", got, " x\n+y")
	}
}

func TestFindSnippet_NoHunks(t *testing.T) {
	f := File{OldPath: "a.go", NewPath: "a.go", Status: StatusModified, Additions: 3}
	if _, ok := FindSnippet(f, 1, ""); ok {
		t.Error("file without hunks should not produce a snippet")
	}
}
