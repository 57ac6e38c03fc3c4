// Package version exposes build metadata for the game controller binaries.
//
// Version, Commit and BuildTime are injected at build time via ldflags.
// Every binary prints them through the `version` subcommand and logs them on startup.
package version
