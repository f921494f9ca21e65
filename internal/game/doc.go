// Package game holds the entity model and state machine for one game of
// No More Jockeys: the fixed player ring, the append-only move and
// banned-category logs, and the mutable current-turn pointer.
//
// The package is pure domain code with no external collaborators. A Session
// is not safe for concurrent use; callers serialize access per session.
package game
