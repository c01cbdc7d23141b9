// Package diff turns git's unified-diff text into structured files, hunks and
// classified lines.
//
// [Parse] splits a multi-file diff on its "diff --git" headers and returns one
// [File] per well-formed block; blocks with an unrecognised header (binary
// preambles, truncated output) are dropped rather than reported. Line numbers
// are tracked per side so every [Line] can be addressed by old or new number.
//
// [Summarize] reduces a file list to totals and per-status counts, and
// [FindSnippet] extracts a small window of diff lines around a line number for
// display next to a comment.
package diff
