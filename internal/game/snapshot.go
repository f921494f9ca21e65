package game

import "time"

// Snapshot is a read-only projection of a session for external consumption.
// It shares no mutable references with the session it was taken from.
type Snapshot struct {
	Players          []PlayerSnapshot         `json:"players"`
	BannedCategories []BannedCategorySnapshot `json:"banned_categories"`
	CurrentPlayer    *int                     `json:"current_player"`
	TurnNumber       int                      `json:"turn_number"`
	GameOver         bool                     `json:"game_over"`
	Moves            []MoveSnapshot           `json:"moves"`
}

// PlayerSnapshot projects one seat.
type PlayerSnapshot struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Human             bool   `json:"is_human"`
	Active            bool   `json:"active"`
	EliminationReason string `json:"elimination_reason,omitempty"`
	MoveCount         int    `json:"move_count"`
}

// BannedCategorySnapshot projects one ban-list entry.
type BannedCategorySnapshot struct {
	Category  string `json:"category"`
	BannedBy  string `json:"banned_by"`
	TurnIndex int    `json:"turn"`
}

// MoveSnapshot projects one recorded move.
type MoveSnapshot struct {
	PlayerID   int       `json:"player_id"`
	Person     string    `json:"person"`
	Category   string    `json:"category"`
	Reasoning  string    `json:"reasoning"`
	Valid      bool      `json:"valid"`
	Violations []string  `json:"violations"`
	Timestamp  time.Time `json:"timestamp"`
}

// Snapshot captures the full session state. Resolving the current player may
// repair a stale pointer, which is the only mutation a snapshot performs.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Players:          make([]PlayerSnapshot, 0, len(s.players)),
		BannedCategories: make([]BannedCategorySnapshot, 0, len(s.banned)),
		TurnNumber:       len(s.moves),
		GameOver:         s.GameOver(),
		Moves:            make([]MoveSnapshot, 0, len(s.moves)),
	}

	for _, p := range s.players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:                p.ID,
			Name:              p.Name,
			Human:             p.Human,
			Active:            p.Active,
			EliminationReason: p.EliminationReason,
			MoveCount:         len(p.Moves),
		})
	}
	for _, b := range s.banned {
		snap.BannedCategories = append(snap.BannedCategories, BannedCategorySnapshot{
			Category:  b.Category,
			BannedBy:  b.BannedBy,
			TurnIndex: b.TurnIndex,
		})
	}
	for _, m := range s.moves {
		snap.Moves = append(snap.Moves, MoveSnapshot{
			PlayerID:   m.PlayerID,
			Person:     m.Person,
			Category:   m.Category,
			Reasoning:  m.Reasoning,
			Valid:      m.Valid,
			Violations: append([]string(nil), m.Violations...),
			Timestamp:  m.Timestamp,
		})
	}
	if current, ok := s.CurrentPlayer(); ok {
		id := current.ID
		snap.CurrentPlayer = &id
	}
	return snap
}
