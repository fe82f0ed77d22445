// Package relay implements the relay server core.
//
// The relay core:
//   - Accepts WebSocket connections and tracks them in a session registry
//   - Runs one receive loop per session
//   - Fans each received text message out to every other connected session
//   - Contains per-session failures so one bad peer never affects the rest
package relay
