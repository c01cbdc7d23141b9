package gitctx

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
)

// DiffOptions controls how diffs are gathered.
type DiffOptions struct {
	ContextLines int
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string `json:"root"`
	Head   string `json:"head"`
	Branch string `json:"branch"`
}

// Repo is a git working tree addressed by path. A Repo for a path that is not
// inside a repository is still usable; IsRepo reports false and every diff
// call fails.
type Repo struct {
	path     string
	root     string
	repo     *git.Repository
	opts     DiffOptions
	executor gitCommandExecutor
}

// Open inspects path and returns a Repo for it.
func Open(path string, opts DiffOptions) *Repo {
	r := &Repo{path: path, root: path, opts: opts}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err == nil {
		r.repo = repo
		if wt, err := repo.Worktree(); err == nil {
			r.root = wt.Filesystem.Root()
		}
		r.executor = newRealGitExecutor(r.root)
	}
	return r
}

// Options returns the diff options the Repo was opened with.
func (r *Repo) Options() DiffOptions {
	return r.opts
}

// IsRepo reports whether the path is inside a git repository.
func (r *Repo) IsRepo() bool {
	return r.repo != nil
}

// HasCommits reports whether HEAD resolves to a commit.
func (r *Repo) HasCommits() bool {
	_, ok := r.HeadSHA()
	return ok
}

// HeadSHA returns the commit HEAD points at, or false for a repository
// without commits.
func (r *Repo) HeadSHA() (string, bool) {
	if r.repo == nil {
		return "", false
	}
	ref, err := r.repo.Head()
	if err != nil {
		return "", false
	}
	return ref.Hash().String(), true
}

// Meta collects repository metadata for a review snapshot.
func (r *Repo) Meta() RepoMeta {
	meta := RepoMeta{Root: r.root}
	if r.repo == nil {
		return meta
	}
	ref, err := r.repo.Head()
	if err != nil {
		return meta
	}
	meta.Head = ref.Hash().String()
	if ref.Name().IsBranch() {
		meta.Branch = ref.Name().Short()
	} else {
		meta.Branch = "HEAD"
	}
	return meta
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repo) HasStagedChanges() (bool, error) {
	out, err := r.git("diff", "--cached", "--name-only")
	if err != nil {
		return false, fmt.Errorf("git diff --cached --name-only: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// StagedDiff returns the diff of index vs HEAD.
func (r *Repo) StagedDiff() (string, error) {
	args := append([]string{"diff", "--cached"}, r.diffArgs()...)
	diff, err := r.git(args...)
	if err != nil {
		return "", fmt.Errorf("git diff --cached: %w", err)
	}
	return diff, nil
}

// BranchDiff returns what branch introduces that HEAD lacks.
func (r *Repo) BranchDiff(branch string) (string, error) {
	return r.BranchFileDiff(branch)
}

// BranchFileDiff is BranchDiff restricted to paths. Both sides of a rename
// must be listed for git to pair them.
func (r *Repo) BranchFileDiff(branch string, paths ...string) (string, error) {
	revRange := "HEAD..." + branch
	args := append([]string{"diff", revRange}, r.diffArgs(paths...)...)
	diff, err := r.git(args...)
	if err != nil {
		return "", fmt.Errorf("git diff %s: %w", revRange, err)
	}
	return diff, nil
}

// CommitsDiff returns each commit's own patch, concatenated in the order
// given. Commits need not be related or contiguous.
func (r *Repo) CommitsDiff(shas []string) (string, error) {
	return r.CommitsFileDiff(shas)
}

// CommitsFileDiff is CommitsDiff restricted to paths, with the same rename
// rule as BranchFileDiff.
func (r *Repo) CommitsFileDiff(shas []string, paths ...string) (string, error) {
	var b strings.Builder
	for _, sha := range shas {
		patch, err := r.commitPatch(sha, paths)
		if err != nil {
			return "", err
		}
		b.WriteString(patch)
		if patch != "" && !strings.HasSuffix(patch, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// commitPatch diffs a commit against its first parent, falling back to
// git show for root commits.
func (r *Repo) commitPatch(sha string, paths []string) (string, error) {
	args := append([]string{"diff", sha + "~1", sha}, r.diffArgs(paths...)...)
	diff, err := r.git(args...)
	if err == nil {
		return diff, nil
	}
	showArgs := append([]string{"show", "--format=", sha}, r.diffArgs(paths...)...)
	diff, err = r.git(showArgs...)
	if err != nil {
		return "", fmt.Errorf("git show %s: %w", sha, err)
	}
	return diff, nil
}

func (r *Repo) diffArgs(paths ...string) []string {
	args := []string{"--no-color", "--no-ext-diff", "-M"}
	if r.opts.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", r.opts.ContextLines))
	}
	args = append(args, "--")
	for _, p := range paths {
		if p != "" {
			args = append(args, p)
		}
	}
	return args
}

func (r *Repo) git(args ...string) (string, error) {
	if r.executor == nil {
		return "", fmt.Errorf("%s is not a git repository", r.path)
	}
	return r.executor.execute(args...)
}

// CommitInfo holds a commit SHA and its subject line.
type CommitInfo struct {
	SHA     string
	Subject string
}

// ListCommits returns commits in a revision range, oldest first.
func (r *Repo) ListCommits(revRange string) ([]CommitInfo, error) {
	// Output format: "commit <sha>\n<subject>\n" per commit.
	out, err := r.git("rev-list", "--reverse", "--format=%s", revRange)
	if err != nil {
		return nil, fmt.Errorf("git rev-list %s: %w", revRange, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}

	lines := strings.Split(out, "\n")
	var commits []CommitInfo
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "commit ") {
			continue
		}
		sha := strings.TrimPrefix(line, "commit ")
		var subject string
		if i+1 < len(lines) {
			subject = strings.TrimSpace(lines[i+1])
			i++
		}
		commits = append(commits, CommitInfo{
			SHA:     sha,
			Subject: subject,
		})
	}
	return commits, nil
}

// MatchesAny returns true if the path matches any of the given glob patterns.
// Invalid patterns never match.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

type gitCommandExecutor interface {
	execute(args ...string) (string, error)
}

type realGitExecutor struct {
	dir string
}

func newRealGitExecutor(dir string) *realGitExecutor {
	return &realGitExecutor{dir: dir}
}

// execute runs git with core.quotePath off so non-ASCII paths appear
// verbatim in diff headers.
func (e *realGitExecutor) execute(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-c", "core.quotePath=false"}, args...)...)
	cmd.Dir = e.dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
