// Package codec converts actions and games to and from protobuf Struct values.
//
// Actions travel as tagged records: {"type": "pause", "args": null} or
// {"type": "goal", "args": {"side": "home"}}. The same Struct shapes are used by
// the gRPC API, the monitor WebSocket and the snapshot file, so every surface
// speaks one format.
package codec
