package diff

import (
	"slices"
	"testing"
)

func fixtureFiles() []File {
	var files []File
	for _, in := range []string{modifiedDiff, newFileDiff, deletedFileDiff, renameDiff, multiDiff} {
		files = append(files, Parse(in)...)
	}
	return files
}

func TestSummarize(t *testing.T) {
	got := Summarize(fixtureFiles())
	want := Summary{
		TotalFiles:     6,
		TotalAdditions: 2 + 3 + 0 + 0 + 3 + 0,
		TotalDeletions: 1 + 0 + 2 + 0 + 1 + 1,
		FilesAdded:     1,
		FilesModified:  3,
		FilesDeleted:   1,
		FilesRenamed:   1,
	}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	files := fixtureFiles()
	base := Summarize(files)

	reversed := slices.Clone(files)
	slices.Reverse(reversed)
	if got := Summarize(reversed); got != base {
		t.Errorf("reversed order summary = %+v, want %+v", got, base)
	}

	for shift := 1; shift < len(files); shift++ {
		rotated := append(slices.Clone(files[shift:]), files[:shift]...)
		if got := Summarize(rotated); got != base {
			t.Errorf("rotation %d summary = %+v, want %+v", shift, got, base)
		}
	}
}
