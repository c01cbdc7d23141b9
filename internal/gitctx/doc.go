// Package gitctx is the git collaborator behind review creation and lazy
// hunk regeneration.
//
// [Open] inspects a path with go-git to decide whether it is a repository,
// whether it has commits, and what HEAD and the current branch are. Diff text
// itself always comes from the git binary so that it is byte-for-byte what
// `git diff` and `git show` emit: staged changes, a comparison of HEAD with a
// branch, and per-commit patches for an arbitrary commit list. Each source has
// a single-file variant used to regenerate one path's hunks on demand.
//
// [MatchesAny] applies doublestar include/exclude globs to changed paths.
package gitctx
