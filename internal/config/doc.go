// Package config loads, validates and saves the YAML settings used by the
// game controller binaries.
//
// Every field can be overridden by a GC_* environment variable, for example
// GC_SERVER_ADDR or GC_GAME_HALF_DURATION. Unset game settings fall back to the
// regular competition rules.
package config
