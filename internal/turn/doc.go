// Package turn drives one game turn end to end: it obtains a candidate move
// from the current player's move source, validates it against the ban list,
// retries automated players within a configured bound, and applies the
// outcome to the game session.
package turn
