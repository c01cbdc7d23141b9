// Package config loads and merges selfreview configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (SELFREVIEW_DB, SELFREVIEW_FORMAT, SELFREVIEW_LOG_LEVEL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/selfreview/config.toml, or SELFREVIEW_CONFIG)
//  4. Built-in defaults
//
// The file is TOML. It is decoded on top of the defaults, so keys it leaves
// out keep their default values, booleans included.
//
// Use [Load] to obtain a merged [Config], [Save] to write one back, and
// [SetField] to update a single key.
package config
