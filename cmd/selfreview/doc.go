// Selfreview is a local CLI for reviewing your own changes before you push
// them.
//
// It snapshots staged changes, a branch, or a list of commits into a review
// stored in a local SQLite database. Reviews can be browsed file by file,
// commented on, moved through approved/changes_requested, and exported as
// text, JSON or markdown.
//
// Usage:
//
//	selfreview create staged                 # review staged changes
//	selfreview create branch feature/login   # review what a branch adds
//	selfreview create commits a1b2c3,d4e5f6  # review specific commits
//	selfreview list --status in_progress
//	selfreview hunks <id> internal/app.go
//	selfreview comment <id> internal/app.go "check nil" --line 42 --type added
//	selfreview export <id> --format markdown --out review.md
package main
