package review

import (
	"reflect"
	"testing"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name      string
		typ       SourceType
		ref       string
		want      Source
		wantRef   string
		stored    bool
		cacheable bool
	}{
		{"staged ignores ref", SourceStaged, "whatever", StagedSource{}, "", true, false},
		{"branch", SourceBranch, " feature/x ", BranchSource{Branch: "feature/x"}, "feature/x", false, false},
		{"commits", SourceCommits, "a1, b2,,c3", CommitsSource{SHAs: []string{"a1", "b2", "c3"}}, "a1,b2,c3", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ParseSource(tt.typ, tt.ref)
			if err != nil {
				t.Fatalf("ParseSource: %v", err)
			}
			if !reflect.DeepEqual(src, tt.want) {
				t.Errorf("got %#v, want %#v", src, tt.want)
			}
			if src.Ref() != tt.wantRef {
				t.Errorf("Ref() = %q, want %q", src.Ref(), tt.wantRef)
			}
			origin := src.HunkOrigin()
			if origin.Stored != tt.stored || origin.Cacheable != tt.cacheable {
				t.Errorf("origin = %+v, want stored=%v cacheable=%v", origin, tt.stored, tt.cacheable)
			}
			if origin.Regenerates() == tt.stored {
				t.Errorf("Regenerates() = %v with Stored = %v", origin.Regenerates(), origin.Stored)
			}
		})
	}
}

func TestParseSource_Invalid(t *testing.T) {
	tests := []struct {
		typ SourceType
		ref string
	}{
		{SourceBranch, ""},
		{SourceCommits, ","},
		{"tag", "v1.0"},
		{"", ""},
	}
	for _, tt := range tests {
		_, err := ParseSource(tt.typ, tt.ref)
		if code, _ := CodeOf(err); code != CodeInvalidSource {
			t.Errorf("ParseSource(%q, %q) error = %v, want %s", tt.typ, tt.ref, err, CodeInvalidSource)
		}
	}
}
