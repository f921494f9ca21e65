package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openplay/jockeys/internal/game"
	"github.com/openplay/jockeys/internal/turn"
)

// ValidatorAgent judges whether a named person falls into any banned
// category. It makes two model calls per judgment: one to gather factual
// information about the person, one to check that information against the
// ban list.
type ValidatorAgent struct {
	invoker Invoker
}

// NewValidatorAgent builds the validator.
func NewValidatorAgent(invoker Invoker) *ValidatorAgent {
	return &ValidatorAgent{invoker: invoker}
}

type verdictResponse struct {
	Safe         bool              `json:"safe"`
	Violations   []string          `json:"violations"`
	Explanations map[string]string `json:"explanations"`
}

// Validate checks the person against the ban list. An empty ban list is
// trivially safe without any model call. An unusable model judgment yields a
// *turn.ValidationError; transport failures propagate unchanged.
func (v *ValidatorAgent) Validate(ctx context.Context, person string, banned []game.BannedCategory) (turn.Verdict, error) {
	if len(banned) == 0 {
		return turn.Verdict{Safe: true}, nil
	}

	personInfo, err := v.personInfo(ctx, person)
	if err != nil {
		return turn.Verdict{}, err
	}

	lines := make([]string, 0, len(banned))
	for _, b := range banned {
		lines = append(lines, "- "+b.Category)
	}

	reply, err := v.invoker.Invoke(ctx, InvokeInput{
		Instructions: validatorSystemPrompt,
		Input:        fmt.Sprintf(validatorCheckPrompt, person, personInfo, strings.Join(lines, "\n")),
	})
	if err != nil {
		return turn.Verdict{}, fmt.Errorf("validator: %w", err)
	}

	var verdict verdictResponse
	if err := extractObject(reply, &verdict); err != nil {
		return turn.Verdict{}, &turn.ValidationError{Err: err}
	}
	return turn.Verdict{
		Safe:         verdict.Safe,
		Violations:   verdict.Violations,
		Explanations: verdict.Explanations,
	}, nil
}

// personInfo fetches factual background about the person as a JSON string.
// A reply that cannot be parsed still feeds the check call, with the parse
// problem embedded, so one garbled info reply does not block the judgment.
func (v *ValidatorAgent) personInfo(ctx context.Context, person string) (string, error) {
	reply, err := v.invoker.Invoke(ctx, InvokeInput{
		Instructions: personInfoSystemPrompt,
		Input:        fmt.Sprintf(personInfoPrompt, person),
	})
	if err != nil {
		return "", fmt.Errorf("person info: %w", err)
	}

	var info map[string]any
	if err := extractObject(reply, &info); err != nil {
		info = map[string]any{"error": fmt.Sprintf("Could not parse person info: %v", err)}
	}
	encoded, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("encode person info: %w", err)
	}
	return string(encoded), nil
}
