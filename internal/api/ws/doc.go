// Package ws serves the live match monitor over WebSocket.
//
// Every connected browser receives {"t": "state", "m": {"game", "legal"}} on
// connect and after every change. A browser may send a bare action record
// such as {"type": "pause", "args": null}; it goes through the same apply path
// as gRPC calls, and rejections come back as {"t": "rejected"} to that browser
// only.
package ws
