package game

import "time"

// Player is one seat in the turn rotation. Players are created once at
// session start and never removed; elimination flips Active so the ring
// ordering and ID-based indexing stay stable for the whole session.
type Player struct {
	ID                int
	Name              string
	Human             bool
	Active            bool
	EliminationReason string // set exactly once, when Active flips to false
	Moves             []Move
}

// Move records one completed turn. Moves are immutable once created and are
// appended to both the session log and the owning player's log.
type Move struct {
	PlayerID   int
	Person     string
	Category   string
	Reasoning  string
	Timestamp  time.Time
	Valid      bool
	Violations []string // banned categories the person matched; empty when valid
}

// BannedCategory is one entry in the append-only ban list. Once added it is
// never removed or modified for the life of the session.
type BannedCategory struct {
	Category  string
	BannedBy  string // person whose naming triggered the ban
	TurnIndex int    // move-log length at the moment of banning
}

// Seat describes one player slot when creating a session.
type Seat struct {
	Name  string
	Human bool
}
