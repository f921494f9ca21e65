// Package metrics holds the Prometheus instruments for the game service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service counters. A nil *Metrics is a no-op receiver so
// wiring stays optional in tests.
type Metrics struct {
	GamesCreated prometheus.Counter
	TurnsPlayed  prometheus.Counter
	Eliminations prometheus.Counter
}

// New creates and registers all counters on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GamesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "jockeys_games_created_total",
			Help: "Total number of game sessions created.",
		}),
		TurnsPlayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "jockeys_turns_played_total",
			Help: "Total number of completed turns across all sessions.",
		}),
		Eliminations: factory.NewCounter(prometheus.CounterOpts{
			Name: "jockeys_eliminations_total",
			Help: "Total number of player eliminations.",
		}),
	}
}

// IncGamesCreated counts one created game.
func (m *Metrics) IncGamesCreated() {
	if m == nil {
		return
	}
	m.GamesCreated.Inc()
}

// IncTurnsPlayed counts one completed turn.
func (m *Metrics) IncTurnsPlayed() {
	if m == nil {
		return
	}
	m.TurnsPlayed.Inc()
}

// IncEliminations counts one elimination.
func (m *Metrics) IncEliminations() {
	if m == nil {
		return
	}
	m.Eliminations.Inc()
}
