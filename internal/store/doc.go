// Package store persists reviews, their per-file records and comments in a
// SQLite database through gorm.
//
// A review and its files are written in one transaction: if any file row
// fails (for example a second row for the same path) nothing is kept and the
// database error is returned as is. File listings are metadata only; the
// serialized hunk blob is loaded only when a single file is fetched.
package store
