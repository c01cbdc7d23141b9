// Package cache keeps regenerated single-file diff text on disk.
//
// Commit-set reviews rebuild a file's hunks by asking git for each commit's
// patch of that file. The answer cannot change for a fixed list of SHAs, so
// the text is stored under a SHA-256 of the repository, source and path.
// Entries older than the configured TTL are ignored on read and dropped by
// [Cache.Prune].
//
// The default directory is $XDG_CACHE_HOME/selfreview (or the OS-appropriate
// equivalent).
package cache
