// Package cli wires together the Cobra command tree for the selfreview binary.
//
// It defines the root command and all subcommands (create, list, show, hunks,
// status, delete, comment, export, config, cache, version), binds flags,
// reads configuration, opens the review database, and returns deterministic
// exit codes.
package cli
