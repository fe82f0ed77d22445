// Package client implements the client side of the relay connection.
//
// The client:
//   - Dials the relay server's WebSocket endpoint
//   - Feeds received messages into a buffered channel
//   - Serializes writes so callers may send from any goroutine
//   - Reports terminal read failures on a separate error channel
package client
