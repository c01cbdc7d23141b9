// Package redact hides secrets in review exports.
//
// Comment text and diff snippets are scanned with regex heuristics for common
// credential shapes (API keys, JWTs, private key headers, cloud and chat
// tokens). A [Policy] can also withhold snippets of whole files whose paths
// match doublestar patterns.
package redact
