package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/openplay/jockeys/internal/apperr"
	"github.com/openplay/jockeys/internal/game"
)

var tracer = otel.Tracer("github.com/openplay/jockeys/internal/turn")

// genericRetryFeedback is sent on every retry after the first. Only the most
// recent failure is ever referenced in feedback; violation history does not
// accumulate across attempts.
const genericRetryFeedback = "Multiple attempts failed. Choose a completely different person who does NOT fall into any banned categories."

// Status classifies the outcome of a PlayTurn call.
type Status string

const (
	// StatusPlayed means a move was recorded and the turn advanced.
	StatusPlayed Status = "played"
	// StatusAwaitingHuman means the current seat is human and no move was
	// supplied; nothing was mutated.
	StatusAwaitingHuman Status = "awaiting_human"
	// StatusGameOver means at most one player remains active.
	StatusGameOver Status = "game_over"
)

// Result is the outcome bundle of one PlayTurn call.
type Result struct {
	Status       Status
	Player       int
	PlayerName   string
	Move         Candidate
	Valid        bool
	Violations   []string
	Explanations map[string]string
	Winner       *int
	WinnerName   string
	State        game.Snapshot
}

var (
	// ErrSessionRequired indicates the orchestrator needs a session.
	ErrSessionRequired = errors.New("session is required")
	// ErrValidatorRequired indicates the orchestrator needs a validator.
	ErrValidatorRequired = errors.New("validator is required")
	// ErrProposerMissing indicates an automated seat has no proposer.
	ErrProposerMissing = errors.New("automated seat has no proposer")
)

// Config assembles an orchestrator for one session.
type Config struct {
	Session *game.Session
	// Proposers maps automated player IDs to their move proposers. Human
	// seats need no entry.
	Proposers map[int]Proposer
	Validator Validator
	// RetryAttempts is the number of extra attempts an automated seat gets
	// after an invalid move. Zero means elimination on the first violation.
	RetryAttempts int
}

// Orchestrator executes turns against a single game session. It is not safe
// for concurrent use; callers serialize turns per session.
type Orchestrator struct {
	session       *game.Session
	proposers     map[int]Proposer
	validator     Validator
	retryAttempts int
}

// New validates the configuration and builds an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Session == nil {
		return nil, ErrSessionRequired
	}
	if cfg.Validator == nil {
		return nil, ErrValidatorRequired
	}
	if cfg.RetryAttempts < 0 {
		return nil, apperr.New(apperr.CodeInvalidRetryBound, "retry attempts must be >= 0")
	}
	for _, p := range cfg.Session.Players() {
		if !p.Human {
			if _, ok := cfg.Proposers[p.ID]; !ok {
				return nil, fmt.Errorf("player %d: %w", p.ID, ErrProposerMissing)
			}
		}
	}
	return &Orchestrator{
		session:       cfg.Session,
		proposers:     cfg.Proposers,
		validator:     cfg.Validator,
		retryAttempts: cfg.RetryAttempts,
	}, nil
}

// Session returns the underlying game session.
func (o *Orchestrator) Session() *game.Session { return o.session }

// Snapshot returns a read-only projection of the session.
func (o *Orchestrator) Snapshot() game.Snapshot { return o.session.Snapshot() }

// PlayTurn executes exactly one turn. A nil humanMove while a human seat is
// current yields an awaiting result with zero state mutation, so the call is
// safe to poll. A non-nil humanMove while an automated seat is current is
// rejected as out of turn. Every completed turn records exactly one move,
// even when it exhausts all retries.
func (o *Orchestrator) PlayTurn(ctx context.Context, humanMove *Candidate) (Result, error) {
	ctx, span := tracer.Start(ctx, "turn.play")
	defer span.End()

	if o.session.GameOver() {
		res := Result{Status: StatusGameOver, State: o.session.Snapshot()}
		if winner, ok := o.session.Winner(); ok {
			id := winner.ID
			res.Winner = &id
			res.WinnerName = winner.Name
		}
		return res, nil
	}

	current, ok := o.session.CurrentPlayer()
	if !ok {
		return Result{Status: StatusGameOver, State: o.session.Snapshot()}, nil
	}
	if humanMove != nil && !current.Human {
		return Result{}, apperr.New(apperr.CodeNotCurrentPlayer, "it is not the human player's turn")
	}
	span.SetAttributes(attribute.Int("turn.player_id", current.ID))

	source := o.sourceFor(current, humanMove)
	snap := o.session.Snapshot()

	candidate, err := source.Next(ctx, snap, "")
	if errors.Is(err, ErrAwaitingInput) {
		return Result{Status: StatusAwaitingHuman, Player: current.ID, PlayerName: current.Name, State: snap}, nil
	}
	candidate, err = absorbProposalFailure(candidate, err)
	if err != nil {
		// Cancellation or transport failure before a verdict: the turn is
		// treated as not yet recorded.
		return Result{}, err
	}

	verdict, err := o.validate(ctx, candidate.Person)
	if err != nil {
		return Result{}, err
	}

	attempts := 1
	if !verdict.Safe && source.Retryable() {
		for attempt := 1; attempt <= o.retryAttempts; attempt++ {
			feedback := genericRetryFeedback
			if attempt == 1 {
				feedback = fmt.Sprintf("Your choice '%s' violated: %s. Choose someone else.",
					candidate.Person, strings.Join(verdict.Violations, ", "))
			}

			next, err := source.Next(ctx, snap, feedback)
			next, err = absorbProposalFailure(next, err)
			if err != nil {
				return Result{}, err
			}
			v, err := o.validate(ctx, next.Person)
			if err != nil {
				return Result{}, err
			}
			candidate, verdict = next, v
			attempts++
			if verdict.Safe {
				break
			}
		}
	}
	span.SetAttributes(attribute.Int("turn.attempts", attempts), attribute.Bool("turn.valid", verdict.Safe))

	o.session.RecordMove(game.Move{
		PlayerID:   current.ID,
		Person:     candidate.Person,
		Category:   candidate.Category,
		Reasoning:  candidate.Reasoning,
		Timestamp:  o.session.Now().UTC(),
		Valid:      verdict.Safe,
		Violations: verdict.Violations,
	})

	if verdict.Safe {
		o.session.AddBannedCategory(candidate.Category, candidate.Person)
	} else {
		reason := fmt.Sprintf("Named %s who is in banned category: %s",
			candidate.Person, strings.Join(verdict.Violations, ", "))
		o.session.EliminatePlayer(current.ID, reason)
	}

	o.session.AdvanceTurn()

	return Result{
		Status:       StatusPlayed,
		Player:       current.ID,
		PlayerName:   current.Name,
		Move:         candidate,
		Valid:        verdict.Safe,
		Violations:   verdict.Violations,
		Explanations: verdict.Explanations,
		State:        o.session.Snapshot(),
	}, nil
}

func (o *Orchestrator) sourceFor(p *game.Player, humanMove *Candidate) MoveSource {
	if p.Human {
		return HumanInput{Move: humanMove}
	}
	return AutomatedSource{Proposer: o.proposers[p.ID]}
}

// validate judges the candidate person against the current ban list. An
// empty ban list is trivially safe and never reaches the collaborator. An
// unusable validator judgment degrades to safe so the game cannot stall.
func (o *Orchestrator) validate(ctx context.Context, person string) (Verdict, error) {
	banned := o.session.BannedCategories()
	if len(banned) == 0 {
		return Verdict{Safe: true}, nil
	}
	verdict, err := o.validator.Validate(ctx, person, banned)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return Verdict{
				Safe:         true,
				Explanations: map[string]string{"error": fmt.Sprintf("Validation parsing failed: %v", verr.Unwrap())},
			}, nil
		}
		return Verdict{}, err
	}
	return verdict, nil
}

// absorbProposalFailure degrades an unusable proposal to a clearly marked
// placeholder move. The placeholder still goes through validation; against a
// non-empty ban list it will almost certainly eliminate the player, which is
// the intended fail-closed bias for proposals.
func absorbProposalFailure(candidate Candidate, err error) (Candidate, error) {
	if err == nil {
		return candidate, nil
	}
	var perr *ProposalError
	if errors.As(err, &perr) {
		return Candidate{
			Person:    "Unknown Person",
			Category:  "unknown category",
			Reasoning: fmt.Sprintf("Failed to parse response: %v", perr.Unwrap()),
		}, nil
	}
	return Candidate{}, err
}
