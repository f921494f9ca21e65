package turn

import (
	"context"
	"errors"
	"fmt"

	"github.com/openplay/jockeys/internal/game"
)

// Candidate is a proposed move: a named person and the category to ban.
type Candidate struct {
	Person    string
	Category  string
	Reasoning string
}

// Verdict is the validator's judgment of a candidate person.
type Verdict struct {
	Safe         bool
	Violations   []string
	Explanations map[string]string
}

// Proposer produces a candidate move from the current game state. A non-empty
// feedback string describes why the previous attempt was rejected.
type Proposer interface {
	ProposeMove(ctx context.Context, state game.Snapshot, feedback string) (Candidate, error)
}

// Validator judges whether a person falls into any banned category.
type Validator interface {
	Validate(ctx context.Context, person string, banned []game.BannedCategory) (Verdict, error)
}

// ProposalError indicates a proposer returned unusable output. The
// orchestrator degrades it to a placeholder move rather than halting the
// turn; the placeholder is still validated and will almost certainly fail.
type ProposalError struct {
	Err error
}

func (e *ProposalError) Error() string { return fmt.Sprintf("proposal: %v", e.Err) }

// Unwrap returns the underlying cause.
func (e *ProposalError) Unwrap() error { return e.Err }

// ValidationError indicates a validator returned an unusable judgment. The
// orchestrator degrades it to a safe verdict so the game keeps moving.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("validation: %v", e.Err) }

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error { return e.Err }

// ErrAwaitingInput signals that a human seat has no move to play yet.
var ErrAwaitingInput = errors.New("awaiting human input")

// MoveSource supplies candidate moves for one seat. HumanInput and
// AutomatedSource are the two variants; the orchestrator depends only on
// this interface.
type MoveSource interface {
	// Next returns the seat's candidate move for this attempt. feedback is
	// non-empty on retry attempts.
	Next(ctx context.Context, state game.Snapshot, feedback string) (Candidate, error)
	// Retryable reports whether the source may be asked again after a
	// violation.
	Retryable() bool
}

// HumanInput adapts an externally supplied human move to a MoveSource. A nil
// move signals "not ready": the orchestrator reports a waiting result and
// leaves all state untouched. Humans get no retries.
type HumanInput struct {
	Move *Candidate
}

// Next returns the supplied move verbatim, defaulting the reasoning text, or
// ErrAwaitingInput when none was supplied.
func (h HumanInput) Next(_ context.Context, _ game.Snapshot, _ string) (Candidate, error) {
	if h.Move == nil {
		return Candidate{}, ErrAwaitingInput
	}
	move := *h.Move
	if move.Reasoning == "" {
		move.Reasoning = "Human player move"
	}
	return move, nil
}

// Retryable reports false: human players are eliminated on their first
// invalid move.
func (HumanInput) Retryable() bool { return false }

// AutomatedSource adapts a Proposer to a MoveSource. Automated seats always
// eventually supply a move and may be retried on violation.
type AutomatedSource struct {
	Proposer Proposer
}

// Next requests a candidate from the proposer.
func (a AutomatedSource) Next(ctx context.Context, state game.Snapshot, feedback string) (Candidate, error) {
	return a.Proposer.ProposeMove(ctx, state, feedback)
}

// Retryable reports true.
func (AutomatedSource) Retryable() bool { return true }
