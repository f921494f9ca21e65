// Package registry owns the process-wide map of running game sessions and
// serializes access per session key: at most one turn is in flight per game
// at a time, which the per-turn state machine requires.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openplay/jockeys/internal/apperr"
	"github.com/openplay/jockeys/internal/game"
	"github.com/openplay/jockeys/internal/turn"
)

// stockSeats is the number of players in a standard game.
const stockSeats = 4

// Factory builds the turn orchestrator for a freshly created session, wiring
// proposers and a validator for its roster.
type Factory func(session *game.Session, retryAttempts int) (*turn.Orchestrator, error)

// ErrFactoryRequired indicates the registry needs an orchestrator factory.
var ErrFactoryRequired = errors.New("orchestrator factory is required")

// Config assembles a registry.
type Config struct {
	Factory Factory
	// DefaultRetryAttempts applies when a create request does not specify a
	// retry bound.
	DefaultRetryAttempts int
	Clock                func() time.Time
	// NewID generates session identifiers; defaults to random UUIDs.
	NewID func() string
}

// Registry holds all live sessions for the process lifetime. Sessions share
// no state with each other and may be driven concurrently.
type Registry struct {
	mu             sync.RWMutex
	sessions       map[string]*Handle
	factory        Factory
	defaultRetries int
	clock          func() time.Time
	newID          func() string
}

// New builds a registry.
func New(cfg Config) (*Registry, error) {
	if cfg.Factory == nil {
		return nil, ErrFactoryRequired
	}
	if cfg.DefaultRetryAttempts < 0 {
		return nil, apperr.New(apperr.CodeInvalidRetryBound, "default retry attempts must be >= 0")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Registry{
		sessions:       make(map[string]*Handle),
		factory:        cfg.Factory,
		defaultRetries: cfg.DefaultRetryAttempts,
		clock:          cfg.Clock,
		newID:          cfg.NewID,
	}, nil
}

// CreateInput describes a new game request.
type CreateInput struct {
	// HumanPlayerName, when set, puts a human seat first in the rotation;
	// the remaining seats are automated. Empty means an all-automated game.
	HumanPlayerName string
	// RetryAttempts overrides the registry default when non-nil.
	RetryAttempts *int
}

// Create starts a new game session and returns its handle.
func (r *Registry) Create(input CreateInput) (*Handle, error) {
	retries := r.defaultRetries
	if input.RetryAttempts != nil {
		if *input.RetryAttempts < 0 {
			return nil, apperr.New(apperr.CodeInvalidRetryBound, "retry attempts must be >= 0")
		}
		retries = *input.RetryAttempts
	}

	seats := make([]game.Seat, 0, stockSeats)
	if input.HumanPlayerName != "" {
		seats = append(seats, game.Seat{Name: input.HumanPlayerName, Human: true})
		for i := 2; i <= stockSeats; i++ {
			seats = append(seats, game.Seat{Name: fmt.Sprintf("Agent-%d", i)})
		}
	} else {
		for i := 1; i <= stockSeats; i++ {
			seats = append(seats, game.Seat{Name: fmt.Sprintf("Agent-%d", i)})
		}
	}

	id := r.newID()
	session, err := game.NewSession(id, seats, r.clock)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	orch, err := r.factory(session, retries)
	if err != nil {
		return nil, fmt.Errorf("build orchestrator: %w", err)
	}

	handle := &Handle{
		id:       id,
		orch:     orch,
		hasHuman: input.HumanPlayerName != "",
	}
	r.mu.Lock()
	r.sessions[id] = handle
	r.mu.Unlock()
	return handle, nil
}

// Get resolves a session handle by ID.
func (r *Registry) Get(id string) (*Handle, error) {
	r.mu.RLock()
	handle, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.CodeSessionNotFound, "game not found")
	}
	return handle, nil
}

// Handle wraps one session's orchestrator behind a mutex so that only one
// mutation is in flight per session at a time.
type Handle struct {
	mu       sync.Mutex
	id       string
	orch     *turn.Orchestrator
	hasHuman bool
}

// ID returns the session identifier.
func (h *Handle) ID() string { return h.id }

// HasHuman reports whether the roster includes a human seat.
func (h *Handle) HasHuman() bool { return h.hasHuman }

// PlayTurn executes one turn, serialized with all other access to this
// session.
func (h *Handle) PlayTurn(ctx context.Context, humanMove *turn.Candidate) (turn.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.orch.PlayTurn(ctx, humanMove)
}

// Snapshot returns a read-only projection of the session.
func (h *Handle) Snapshot() game.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.orch.Snapshot()
}
