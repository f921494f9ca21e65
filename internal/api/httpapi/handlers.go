package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/openplay/jockeys/internal/apperr"
	"github.com/openplay/jockeys/internal/game"
	"github.com/openplay/jockeys/internal/registry"
	"github.com/openplay/jockeys/internal/turn"
)

type createGameRequest struct {
	HumanPlayerName string `json:"human_player_name"`
	RetryAttempts   *int   `json:"retry_attempts"`
}

type createGameResponse struct {
	GameID    string        `json:"game_id"`
	HasHuman  bool          `json:"has_human"`
	GameState game.Snapshot `json:"game_state"`
}

type gameActionRequest struct {
	GameID string `json:"game_id"`
}

type humanMoveRequest struct {
	GameID    string `json:"game_id"`
	Person    string `json:"person"`
	Category  string `json:"category"`
	Reasoning string `json:"reasoning"`
}

type moveBody struct {
	Person    string `json:"person"`
	Category  string `json:"category"`
	Reasoning string `json:"reasoning"`
}

type turnResponse struct {
	WaitingForHuman bool              `json:"waiting_for_human"`
	GameOver        bool              `json:"game_over,omitempty"`
	CurrentPlayer   *int              `json:"current_player,omitempty"`
	PlayerName      string            `json:"player_name,omitempty"`
	Move            *moveBody         `json:"move,omitempty"`
	Valid           *bool             `json:"valid,omitempty"`
	Violations      []string          `json:"violations,omitempty"`
	Explanations    map[string]string `json:"explanations,omitempty"`
	Winner          *int              `json:"winner,omitempty"`
	WinnerName      string            `json:"winner_name,omitempty"`
	GameState       game.Snapshot     `json:"game_state"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	handle, err := s.registry.Create(registry.CreateInput{
		HumanPlayerName: strings.TrimSpace(req.HumanPlayerName),
		RetryAttempts:   req.RetryAttempts,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.IncGamesCreated()

	writeJSON(w, http.StatusOK, createGameResponse{
		GameID:    handle.ID(),
		HasHuman:  handle.HasHuman(),
		GameState: handle.Snapshot(),
	})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req gameActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.GameID == "" {
		writeError(w, apperr.New(apperr.CodeInvalidRequest, "game_id is required"))
		return
	}

	handle, err := s.registry.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := handle.PlayTurn(r.Context(), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	s.countTurn(result)
	writeJSON(w, http.StatusOK, turnResponseFrom(result))
}

func (s *Server) handleHumanMove(w http.ResponseWriter, r *http.Request) {
	var req humanMoveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.GameID == "" {
		writeError(w, apperr.New(apperr.CodeInvalidRequest, "game_id is required"))
		return
	}
	if strings.TrimSpace(req.Person) == "" || strings.TrimSpace(req.Category) == "" {
		writeError(w, apperr.New(apperr.CodeInvalidRequest, "person and category are required"))
		return
	}

	handle, err := s.registry.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}

	move := &turn.Candidate{
		Person:    strings.TrimSpace(req.Person),
		Category:  strings.TrimSpace(req.Category),
		Reasoning: strings.TrimSpace(req.Reasoning),
	}
	result, err := handle.PlayTurn(r.Context(), move)
	if err != nil {
		writeError(w, err)
		return
	}
	s.countTurn(result)
	writeJSON(w, http.StatusOK, turnResponseFrom(result))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	handle, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, handle.Snapshot())
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) countTurn(result turn.Result) {
	if result.Status != turn.StatusPlayed {
		return
	}
	s.metrics.IncTurnsPlayed()
	if !result.Valid {
		s.metrics.IncEliminations()
	}
}

func turnResponseFrom(result turn.Result) turnResponse {
	resp := turnResponse{GameState: result.State}
	switch result.Status {
	case turn.StatusAwaitingHuman:
		resp.WaitingForHuman = true
		player := result.Player
		resp.CurrentPlayer = &player
		resp.PlayerName = result.PlayerName
	case turn.StatusGameOver:
		resp.GameOver = true
		resp.Winner = result.Winner
		resp.WinnerName = result.WinnerName
	case turn.StatusPlayed:
		resp.Move = &moveBody{
			Person:    result.Move.Person,
			Category:  result.Move.Category,
			Reasoning: result.Move.Reasoning,
		}
		valid := result.Valid
		resp.Valid = &valid
		resp.Violations = result.Violations
		resp.Explanations = result.Explanations
	}
	return resp
}

// decodeBody tolerates an empty body so endpoints with all-optional fields
// accept bare POSTs.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Wrap(apperr.CodeInvalidRequest, "invalid request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Code.HTTPStatus(), errorResponse{
			Error: appErr.Message,
			Code:  string(appErr.Code),
		})
		return
	}
	log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
