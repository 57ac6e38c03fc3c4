// Package server runs gc-server, the single writer of a match.
//
// It owns the live action context and serializes every action from gRPC, the
// monitor WebSocket and the clock loop on it. Accepted actions are persisted
// as a snapshot, every attempt is journaled, and observers get a fresh view
// after each change.
package server
