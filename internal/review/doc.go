// Package review creates and reads code reviews of a repository's staged
// changes, a branch, or a set of commits.
//
// A [Manager] pulls diff text from a [Git] collaborator, parses and summarizes
// it, and persists one review plus one record per changed file through a
// [Store]. Whether a file's hunks are stored is decided once from the review's
// [Source]: staged reviews keep their hunks because the index is mutable,
// branch and commit reviews store none and regenerate them from git when
// [Manager.FileHunks] asks for them.
//
// Review snapshots come in two shapes. Legacy snapshots (no version tag) embed
// every file with its hunks; version 2 snapshots carry only repository
// metadata and leave files to the file records. [DecodeSnapshot] turns either
// into a [Snapshot] once, and every read path works from the resulting
// [Details].
//
// Failures a user can act on are returned as [*Error] with a stable [Code].
package review
