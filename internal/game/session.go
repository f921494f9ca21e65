package game

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrTooFewSeats indicates a session needs at least two players.
	ErrTooFewSeats = errors.New("at least two seats are required")
	// ErrEmptySeatName indicates a seat is missing a player name.
	ErrEmptySeatName = errors.New("seat name is required")
)

// Session is the aggregate root for one game. It owns the player ring, the
// move and banned-category logs, and the current-turn pointer.
type Session struct {
	id              string
	players         []*Player
	banned          []BannedCategory
	moves           []Move
	currentPlayerID int
	clock           func() time.Time
}

// NewSession creates a session from an ordered seat list. Seat order defines
// the turn rotation; player IDs are assigned 1..N in that order and the first
// seat starts as the current player.
func NewSession(id string, seats []Seat, clock func() time.Time) (*Session, error) {
	if len(seats) < 2 {
		return nil, ErrTooFewSeats
	}
	if clock == nil {
		clock = time.Now
	}

	players := make([]*Player, 0, len(seats))
	for i, seat := range seats {
		name := strings.TrimSpace(seat.Name)
		if name == "" {
			return nil, ErrEmptySeatName
		}
		players = append(players, &Player{
			ID:     i + 1,
			Name:   name,
			Human:  seat.Human,
			Active: true,
		})
	}

	return &Session{
		id:              id,
		players:         players,
		currentPlayerID: players[0].ID,
		clock:           clock,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Players returns the full player ring in rotation order, eliminated seats
// included.
func (s *Session) Players() []*Player {
	out := make([]*Player, len(s.players))
	copy(out, s.players)
	return out
}

// ActivePlayers returns the players still in the game, preserving rotation
// order.
func (s *Session) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range s.players {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// CurrentPlayer resolves the current-turn pointer. When the pointed-at player
// has been eliminated, the pointer is repaired in place: starting at the
// stale pointer's slot, the ring is walked forward once and the first active
// player found becomes current. Returns false when no active player remains.
func (s *Session) CurrentPlayer() (*Player, bool) {
	for _, p := range s.players {
		if p.ID == s.currentPlayerID && p.Active {
			return p, true
		}
	}

	start := s.indexOf(s.currentPlayerID)
	if start < 0 {
		start = 0
	}
	for i := range s.players {
		p := s.players[(start+i)%len(s.players)]
		if p.Active {
			s.currentPlayerID = p.ID
			return p, true
		}
	}
	return nil, false
}

// AdvanceTurn moves the pointer to the next active player after the current
// slot, walking the ring once. No-op when no active player remains. Call at
// most once per completed turn, after the turn's outcome has been applied.
func (s *Session) AdvanceTurn() {
	start := s.indexOf(s.currentPlayerID)
	if start < 0 {
		start = 0
	}
	for i := 1; i <= len(s.players); i++ {
		p := s.players[(start+i)%len(s.players)]
		if p.Active {
			s.currentPlayerID = p.ID
			return
		}
	}
}

// EliminatePlayer deactivates the matching player and records the reason.
// No-op for unknown or already-inactive players, so the active→inactive
// transition happens at most once.
func (s *Session) EliminatePlayer(id int, reason string) {
	for _, p := range s.players {
		if p.ID == id {
			if p.Active {
				p.Active = false
				p.EliminationReason = reason
			}
			return
		}
	}
}

// AddBannedCategory appends a ban attributed to the named person. Only call
// for a move already judged valid; the turn index is the move-log length at
// the time of the call.
func (s *Session) AddBannedCategory(category, person string) {
	s.banned = append(s.banned, BannedCategory{
		Category:  category,
		BannedBy:  person,
		TurnIndex: len(s.moves),
	})
}

// BannedCategories returns the ban list in chronological order.
func (s *Session) BannedCategories() []BannedCategory {
	out := make([]BannedCategory, len(s.banned))
	copy(out, s.banned)
	return out
}

// RecordMove appends the move to the session log and the owning player's
// personal log.
func (s *Session) RecordMove(m Move) {
	s.moves = append(s.moves, m)
	for _, p := range s.players {
		if p.ID == m.PlayerID {
			p.Moves = append(p.Moves, m)
			return
		}
	}
}

// MoveCount returns the number of completed turns.
func (s *Session) MoveCount() int { return len(s.moves) }

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.clock() }

// GameOver reports whether at most one player remains active.
func (s *Session) GameOver() bool {
	return len(s.ActivePlayers()) <= 1
}

// Winner returns the sole remaining active player. There is no winner while
// the game is in progress or when every player has been eliminated.
func (s *Session) Winner() (*Player, bool) {
	active := s.ActivePlayers()
	if len(active) == 1 {
		return active[0], true
	}
	return nil, false
}

func (s *Session) indexOf(playerID int) int {
	for i, p := range s.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}
