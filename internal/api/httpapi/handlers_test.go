package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openplay/jockeys/internal/game"
	"github.com/openplay/jockeys/internal/platform/metrics"
	"github.com/openplay/jockeys/internal/registry"
	"github.com/openplay/jockeys/internal/turn"
)

type scriptedProposer struct {
	candidates []turn.Candidate
	calls      int
}

func (p *scriptedProposer) ProposeMove(_ context.Context, _ game.Snapshot, _ string) (turn.Candidate, error) {
	i := p.calls
	p.calls++
	if i < len(p.candidates) {
		return p.candidates[i], nil
	}
	return turn.Candidate{Person: fmt.Sprintf("Filler Person %d", i), Category: fmt.Sprintf("filler category %d", i), Reasoning: "scripted"}, nil
}

type scriptedValidator struct {
	verdicts []turn.Verdict
	calls    int
}

func (v *scriptedValidator) Validate(_ context.Context, _ string, _ []game.BannedCategory) (turn.Verdict, error) {
	i := v.calls
	v.calls++
	if i < len(v.verdicts) {
		return v.verdicts[i], nil
	}
	return turn.Verdict{Safe: true}, nil
}

func newTestServer(t *testing.T, proposer turn.Proposer, validator turn.Validator) *httptest.Server {
	t.Helper()
	reg, err := registry.New(registry.Config{
		Factory: func(session *game.Session, retryAttempts int) (*turn.Orchestrator, error) {
			proposers := make(map[int]turn.Proposer)
			for _, p := range session.Players() {
				if !p.Human {
					proposers[p.ID] = proposer
				}
			}
			return turn.New(turn.Config{
				Session:       session,
				Proposers:     proposers,
				Validator:     validator,
				RetryAttempts: 2,
			})
		},
		DefaultRetryAttempts: 2,
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	promRegistry := prometheus.NewRegistry()
	srv := httptest.NewServer(NewServer(reg, metrics.New(promRegistry), promRegistry).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { res.Body.Close() })

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return res, decoded
}

func createGame(t *testing.T, srv *httptest.Server, body any) string {
	t.Helper()
	res, decoded := postJSON(t, srv.URL+"/api/game/create", body)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d", res.StatusCode)
	}
	var id string
	if err := json.Unmarshal(decoded["game_id"], &id); err != nil || id == "" {
		t.Fatalf("game_id = %s err = %v", decoded["game_id"], err)
	}
	return id
}

func TestCreateTurnStateRoundTrip(t *testing.T) {
	proposer := &scriptedProposer{candidates: []turn.Candidate{
		{Person: "Barack Obama", Category: "U.S. presidents", Reasoning: "narrow opener"},
	}}
	srv := newTestServer(t, proposer, &scriptedValidator{})
	id := createGame(t, srv, map[string]any{})

	res, decoded := postJSON(t, srv.URL+"/api/game/turn", map[string]string{"game_id": id})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("turn status = %d", res.StatusCode)
	}
	var move moveBody
	if err := json.Unmarshal(decoded["move"], &move); err != nil {
		t.Fatalf("decode move: %v", err)
	}
	if move.Person != "Barack Obama" || move.Category != "U.S. presidents" {
		t.Fatalf("move = %+v", move)
	}
	var valid bool
	if err := json.Unmarshal(decoded["valid"], &valid); err != nil || !valid {
		t.Fatalf("valid = %s err = %v", decoded["valid"], err)
	}

	stateRes, err := http.Get(srv.URL + "/api/game/" + id + "/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	defer stateRes.Body.Close()
	if stateRes.StatusCode != http.StatusOK {
		t.Fatalf("state status = %d", stateRes.StatusCode)
	}
	var snap game.Snapshot
	if err := json.NewDecoder(stateRes.Body).Decode(&snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if snap.TurnNumber != 1 || len(snap.BannedCategories) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.BannedCategories[0].Category != "U.S. presidents" {
		t.Fatalf("banned = %+v", snap.BannedCategories)
	}
	if snap.CurrentPlayer == nil || *snap.CurrentPlayer != 2 {
		t.Fatalf("current player = %v, want 2", snap.CurrentPlayer)
	}
}

func TestTurnWaitsForHuman(t *testing.T) {
	srv := newTestServer(t, &scriptedProposer{}, &scriptedValidator{})
	id := createGame(t, srv, map[string]string{"human_player_name": "Alice"})

	res, decoded := postJSON(t, srv.URL+"/api/game/turn", map[string]string{"game_id": id})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("turn status = %d", res.StatusCode)
	}
	var waiting bool
	if err := json.Unmarshal(decoded["waiting_for_human"], &waiting); err != nil || !waiting {
		t.Fatalf("waiting_for_human = %s err = %v", decoded["waiting_for_human"], err)
	}
	var name string
	if err := json.Unmarshal(decoded["player_name"], &name); err != nil || name != "Alice" {
		t.Fatalf("player_name = %s err = %v", decoded["player_name"], err)
	}
}

func TestHumanMoveFlow(t *testing.T) {
	validator := &scriptedValidator{}
	srv := newTestServer(t, &scriptedProposer{}, validator)
	id := createGame(t, srv, map[string]string{"human_player_name": "Alice"})

	res, decoded := postJSON(t, srv.URL+"/api/game/human-move", map[string]string{
		"game_id":  id,
		"person":   "Barack Obama",
		"category": "U.S. presidents",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("human-move status = %d", res.StatusCode)
	}
	var move moveBody
	if err := json.Unmarshal(decoded["move"], &move); err != nil {
		t.Fatalf("decode move: %v", err)
	}
	if move.Reasoning != "Human player move" {
		t.Fatalf("reasoning = %q, want the default", move.Reasoning)
	}
}

func TestHumanMoveValidation(t *testing.T) {
	srv := newTestServer(t, &scriptedProposer{}, &scriptedValidator{})
	id := createGame(t, srv, map[string]string{"human_player_name": "Alice"})

	res, decoded := postJSON(t, srv.URL+"/api/game/human-move", map[string]string{
		"game_id": id,
		"person":  "Barack Obama",
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a missing category", res.StatusCode)
	}
	var code string
	if err := json.Unmarshal(decoded["code"], &code); err != nil || code != "INVALID_REQUEST" {
		t.Fatalf("code = %s err = %v", decoded["code"], err)
	}
}

func TestHumanMoveOutOfTurn(t *testing.T) {
	srv := newTestServer(t, &scriptedProposer{}, &scriptedValidator{})
	id := createGame(t, srv, map[string]any{})

	res, _ := postJSON(t, srv.URL+"/api/game/human-move", map[string]string{
		"game_id":  id,
		"person":   "Barack Obama",
		"category": "U.S. presidents",
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for an out-of-turn move", res.StatusCode)
	}
}

func TestUnknownGameIs404(t *testing.T) {
	srv := newTestServer(t, &scriptedProposer{}, &scriptedValidator{})

	res, decoded := postJSON(t, srv.URL+"/api/game/turn", map[string]string{"game_id": "missing"})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
	var code string
	if err := json.Unmarshal(decoded["code"], &code); err != nil || code != "SESSION_NOT_FOUND" {
		t.Fatalf("code = %s err = %v", decoded["code"], err)
	}

	stateRes, err := http.Get(srv.URL + "/api/game/missing/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	defer stateRes.Body.Close()
	if stateRes.StatusCode != http.StatusNotFound {
		t.Fatalf("state status = %d, want 404", stateRes.StatusCode)
	}
}

func TestTurnRequiresGameID(t *testing.T) {
	srv := newTestServer(t, &scriptedProposer{}, &scriptedValidator{})

	res, _ := postJSON(t, srv.URL+"/api/game/turn", map[string]string{})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestMetricsAndHealthEndpoints(t *testing.T) {
	proposer := &scriptedProposer{candidates: []turn.Candidate{
		{Person: "Barack Obama", Category: "U.S. presidents", Reasoning: "opener"},
	}}
	srv := newTestServer(t, proposer, &scriptedValidator{})
	id := createGame(t, srv, map[string]any{})
	if res, _ := postJSON(t, srv.URL+"/api/game/turn", map[string]string{"game_id": id}); res.StatusCode != http.StatusOK {
		t.Fatalf("turn status = %d", res.StatusCode)
	}

	health, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", health.StatusCode)
	}

	metricsRes, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer metricsRes.Body.Close()
	raw, err := io.ReadAll(metricsRes.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	body := string(raw)
	for _, want := range []string{
		"jockeys_games_created_total 1",
		"jockeys_turns_played_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &scriptedProposer{}, &scriptedValidator{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/game/create", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", res.StatusCode)
	}
	if res.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS headers")
	}
}
