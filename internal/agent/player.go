package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/openplay/jockeys/internal/game"
	"github.com/openplay/jockeys/internal/turn"
)

// recentMoveWindow bounds how many past moves the player prompt replays.
const recentMoveWindow = 5

// PlayerAgent proposes moves for one automated seat.
type PlayerAgent struct {
	playerID int
	invoker  Invoker
}

// NewPlayerAgent builds the proposer for the given seat.
func NewPlayerAgent(playerID int, invoker Invoker) *PlayerAgent {
	return &PlayerAgent{playerID: playerID, invoker: invoker}
}

type moveResponse struct {
	Person    string `json:"person"`
	Category  string `json:"category"`
	Reasoning string `json:"reasoning"`
}

// ProposeMove generates a candidate move from the current state. A non-empty
// feedback string from a rejected earlier attempt is appended to the prompt.
// Unusable model output yields a *turn.ProposalError; transport failures
// propagate unchanged.
func (a *PlayerAgent) ProposeMove(ctx context.Context, state game.Snapshot, feedback string) (turn.Candidate, error) {
	reply, err := a.invoker.Invoke(ctx, InvokeInput{
		Instructions: fmt.Sprintf(playerSystemPrompt, a.playerID),
		Input:        a.turnPrompt(state, feedback),
	})
	if err != nil {
		return turn.Candidate{}, fmt.Errorf("player %d: %w", a.playerID, err)
	}

	var move moveResponse
	if err := extractObject(reply, &move); err != nil {
		return turn.Candidate{}, &turn.ProposalError{Err: err}
	}
	if strings.TrimSpace(move.Person) == "" ||
		strings.TrimSpace(move.Category) == "" ||
		strings.TrimSpace(move.Reasoning) == "" {
		return turn.Candidate{}, &turn.ProposalError{Err: fmt.Errorf("missing required fields")}
	}
	return turn.Candidate{
		Person:    strings.TrimSpace(move.Person),
		Category:  strings.TrimSpace(move.Category),
		Reasoning: strings.TrimSpace(move.Reasoning),
	}, nil
}

func (a *PlayerAgent) turnPrompt(state game.Snapshot, feedback string) string {
	bannedList := "None yet"
	if len(state.BannedCategories) > 0 {
		lines := make([]string, 0, len(state.BannedCategories))
		for _, b := range state.BannedCategories {
			lines = append(lines, fmt.Sprintf("- %s (banned when %s was named)", b.Category, b.BannedBy))
		}
		bannedList = strings.Join(lines, "\n")
	}

	recent := "This is the first move"
	if len(state.Moves) > 0 {
		moves := state.Moves
		if len(moves) > recentMoveWindow {
			moves = moves[len(moves)-recentMoveWindow:]
		}
		lines := make([]string, 0, len(moves))
		for _, m := range moves {
			lines = append(lines, fmt.Sprintf("Player %d: %s - no more %s", m.PlayerID, m.Person, m.Category))
		}
		recent = strings.Join(lines, "\n")
	}

	var active, eliminated []string
	for _, p := range state.Players {
		if p.Active {
			active = append(active, strconv.Itoa(p.ID))
		} else {
			eliminated = append(eliminated, fmt.Sprintf("%d (%s)", p.ID, p.EliminationReason))
		}
	}
	eliminatedList := "None"
	if len(eliminated) > 0 {
		eliminatedList = strings.Join(eliminated, ", ")
	}

	prompt := fmt.Sprintf(playerTurnPrompt, bannedList, recent, strings.Join(active, ", "), eliminatedList)
	if feedback != "" {
		prompt += fmt.Sprintf("\n\nPREVIOUS ATTEMPT FEEDBACK: %s\nPlease choose a different person who does NOT fall into the banned categories.", feedback)
	}
	return prompt
}
