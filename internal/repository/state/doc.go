// Package state persists snapshots of the running game.
//
// The FileRepository stores the game as protobuf JSON on disk so gc-server can
// resume a match after a restart.
package state
