// Package watcher implements gc-watch, a read-only client that polls
// gc-server and logs lifecycle, pause and score changes.
package watcher
