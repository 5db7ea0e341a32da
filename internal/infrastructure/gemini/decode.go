package gemini

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cartpilot/backend/internal/domain"
)

// StripCodeFence removes a wrapping markdown code fence from a model reply.
// Replies frequently arrive as "```json\n{...}\n```" despite the prompt
// asking for bare JSON.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// matchReply is the loosely-typed wire shape of a match reply. Index is a
// pointer so a missing field is distinguishable from zero.
type matchReply struct {
	Index  *int   `json:"index"`
	Reason string `json:"reason"`
}

// DecodeMatchDecision turns a raw match reply into a tagged decision.
// index == 0 is a skip, index in [1, len(candidates)] maps to
// candidates[index-1], anything else - including unparsable bodies and
// missing fields - is invalid. Out-of-range indexes are never clamped.
func DecodeMatchDecision(raw string, candidates []domain.ProductCandidate) domain.MatchDecision {
	cleaned := StripCodeFence(raw)

	var reply matchReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		log.Printf("[GEMINI] unparsable match reply: %v", err)
		return domain.MatchDecision{Outcome: domain.MatchInvalid, Reason: "unparsable reply"}
	}

	if reply.Index == nil {
		log.Printf("[GEMINI] match reply missing index field")
		return domain.MatchDecision{Outcome: domain.MatchInvalid, Reason: "missing index field"}
	}

	index := *reply.Index
	if index == 0 {
		return domain.MatchDecision{Outcome: domain.MatchSkip, Reason: reply.Reason}
	}

	if index < 0 || index > len(candidates) {
		log.Printf("[GEMINI] out-of-range match index: %d (candidates: %d)", index, len(candidates))
		return domain.MatchDecision{
			Outcome: domain.MatchInvalid,
			Reason:  fmt.Sprintf("index %d out of range [0, %d]", index, len(candidates)),
		}
	}

	return domain.MatchDecision{
		Outcome:   domain.MatchChosen,
		Candidate: candidates[index-1],
		Reason:    reply.Reason,
	}
}

// DecodeActionPlan parses, normalizes and validates a plan reply. Steps that
// still miss required fields after normalization are dropped; a body that is
// not a plan at all fails the whole decode.
func DecodeActionPlan(raw string) (*domain.ActionPlan, error) {
	cleaned := StripCodeFence(raw)

	var plan domain.ActionPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPlan, err)
	}

	if plan.Plan == nil {
		return nil, fmt.Errorf("%w: missing plan array", domain.ErrInvalidPlan)
	}

	plan.Plan = normalizeSteps(plan.Plan)
	return &plan, nil
}

// normalizeSteps applies the enumerated field-name fixups the model is known
// to get wrong, then drops any step whose required fields are still missing.
// The rules are kept as an explicit list so they stay unit-testable apart
// from schema validation:
//
//  1. a "type" step that supplies its text under "text" instead of "value"
//  2. a "clickByText" step that supplies its target under "selector"
//     instead of "text"
func normalizeSteps(steps []domain.ActionStep) []domain.ActionStep {
	normalized := make([]domain.ActionStep, 0, len(steps))

	for _, step := range steps {
		step.Type = domain.StepKind(strings.TrimSpace(string(step.Type)))

		if step.Type == domain.StepTypeText && step.Value == "" && step.Text != "" {
			step.Value = step.Text
			step.Text = ""
		}

		if step.Type == domain.StepClickByText && step.Text == "" && step.Selector != "" {
			step.Text = step.Selector
			step.Selector = ""
		}

		if err := step.Validate(); err != nil {
			log.Printf("[GEMINI] dropping malformed step %q: %v", step.Type, err)
			continue
		}

		normalized = append(normalized, step)
	}

	return normalized
}
