// Package api contains API service implementations.
//
// The httpapi subpackage exposes the game service as a JSON HTTP API:
// game creation, turn execution, human move submission, and state reads.
// Transport concerns (routing, CORS, status mapping, request decoding) live
// there; game rules live in internal/game and internal/turn.
package api
