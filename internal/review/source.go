package review

import (
	"strings"
)

// SourceType names where a review's diff came from.
type SourceType string

const (
	SourceStaged  SourceType = "staged"
	SourceBranch  SourceType = "branch"
	SourceCommits SourceType = "commits"
)

// Source is one of StagedSource, BranchSource or CommitsSource.
type Source interface {
	Type() SourceType
	// Ref is the persisted source reference: a branch name, comma-joined
	// SHAs, or empty for staged changes.
	Ref() string
	// HunkOrigin says how a file's hunks are obtained after creation.
	HunkOrigin() HunkOrigin

	diff(g Git) (string, error)
	baseRef(g Git) string
}

// HunkOrigin is either stored (hunks persisted with each file record) or a
// regeneration from git, one file at a time.
type HunkOrigin struct {
	Stored bool
	// Cacheable is set when regenerated text cannot change for the same
	// source, as with commit SHAs.
	Cacheable  bool
	// regenerate is given the file's current path, then its old path when
	// the file was renamed.
	regenerate func(g Git, paths []string) (string, error)
}

// Regenerates reports whether hunks are rebuilt from git on demand.
func (o HunkOrigin) Regenerates() bool {
	return o.regenerate != nil
}

// StagedSource reviews the index against HEAD.
type StagedSource struct{}

func (StagedSource) Type() SourceType { return SourceStaged }
func (StagedSource) Ref() string { return "" }

func (StagedSource) HunkOrigin() HunkOrigin {
	return HunkOrigin{Stored: true}
}

func (StagedSource) diff(g Git) (string, error) { return g.StagedDiff() }

func (StagedSource) baseRef(g Git) string {
	sha, _ := g.HeadSHA()
	return sha
}

// BranchSource reviews what Branch adds relative to its merge base with HEAD.
type BranchSource struct {
	Branch string
}

func (s BranchSource) Type() SourceType { return SourceBranch }
func (s BranchSource) Ref() string { return s.Branch }

func (s BranchSource) HunkOrigin() HunkOrigin {
	return HunkOrigin{regenerate: func(g Git, paths []string) (string, error) {
		return g.BranchFileDiff(s.Branch, paths...)
	}}
}

func (s BranchSource) diff(g Git) (string, error) { return g.BranchDiff(s.Branch) }

func (s BranchSource) baseRef(g Git) string {
	sha, _ := g.HeadSHA()
	return sha
}

// CommitsSource reviews the patches of SHAs, in the order given.
type CommitsSource struct {
	SHAs []string
}

func (s CommitsSource) Type() SourceType { return SourceCommits }
func (s CommitsSource) Ref() string { return strings.Join(s.SHAs, ",") }

func (s CommitsSource) HunkOrigin() HunkOrigin {
	return HunkOrigin{Cacheable: true, regenerate: func(g Git, paths []string) (string, error) {
		return g.CommitsFileDiff(s.SHAs, paths...)
	}}
}

func (s CommitsSource) diff(g Git) (string, error) { return g.CommitsDiff(s.SHAs) }

// baseRef is the last SHA as given; the list is not sorted topologically.
func (s CommitsSource) baseRef(Git) string {
	return s.SHAs[len(s.SHAs)-1]
}

// ParseSource builds the source for a type and its persisted reference.
func ParseSource(t SourceType, ref string) (Source, error) {
	switch t {
	case SourceStaged:
		return StagedSource{}, nil
	case SourceBranch:
		branch := strings.TrimSpace(ref)
		if branch == "" {
			return nil, newError(CodeInvalidSource, "branch source requires a branch name")
		}
		return BranchSource{Branch: branch}, nil
	case SourceCommits:
		var shas []string
		for _, sha := range strings.Split(ref, ",") {
			if sha = strings.TrimSpace(sha); sha != "" {
				shas = append(shas, sha)
			}
		}
		if len(shas) == 0 {
			return nil, newError(CodeInvalidSource, "commits source requires at least one commit SHA")
		}
		return CommitsSource{SHAs: shas}, nil
	default:
		return nil, newError(CodeInvalidSource, "unknown source type %q", t)
	}
}
