// Package output renders reviews for display or machine consumption.
//
// Three formats are supported:
//   - text     human-readable terminal output with box-drawn tables (default)
//   - json     the structured values, indented
//   - markdown tables and fenced diffs suitable for pasting into a PR
//
// Use [GetWriter] to obtain a [Writer] for a format string, and [Create] to
// pick between a file and stdout.
package output
