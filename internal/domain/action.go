package domain

import "fmt"

// StepKind identifies one UI operation in an action plan.
type StepKind string

const (
	StepClick           StepKind = "click"
	StepClickByText     StepKind = "clickByText"
	StepTypeText        StepKind = "type"
	StepPress           StepKind = "press"
	StepGoto            StepKind = "goto"
	StepWaitForSelector StepKind = "waitForSelector"
	StepSelect          StepKind = "select"
	StepLog             StepKind = "log"
)

// ActionStep is one step of a plan. The reasoning service populates only the
// fields its kind requires; everything else stays empty.
type ActionStep struct {
	Type     StepKind `json:"type"`
	Selector string   `json:"selector,omitempty"`
	Text     string   `json:"text,omitempty"`
	Value    string   `json:"value,omitempty"`
	Key      string   `json:"key,omitempty"`
	URL      string   `json:"url,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// Validate checks that the fields required by the step's kind are present.
// A validation failure is local to the step, not to the plan.
func (s ActionStep) Validate() error {
	switch s.Type {
	case StepClick, StepWaitForSelector:
		if s.Selector == "" {
			return fmt.Errorf("missing selector for %s step", s.Type)
		}
	case StepClickByText:
		if s.Text == "" {
			return fmt.Errorf("missing text for %s step", s.Type)
		}
	case StepTypeText:
		if s.Selector == "" || s.Value == "" {
			return fmt.Errorf("missing selector or value for %s step", s.Type)
		}
	case StepSelect:
		if s.Selector == "" || s.Value == "" {
			return fmt.Errorf("missing selector or value for %s step", s.Type)
		}
	case StepPress:
		if s.Key == "" {
			return fmt.Errorf("missing key for %s step", s.Type)
		}
	case StepGoto:
		if s.URL == "" {
			return fmt.Errorf("missing url for %s step", s.Type)
		}
	case StepLog:
		// message is optional
	default:
		return fmt.Errorf("unknown step type %q", s.Type)
	}
	return nil
}

// ActionPlan is an ordered sequence of steps produced for one goal attempt.
// Plans are generated fresh per attempt and never persisted.
type ActionPlan struct {
	Plan    []ActionStep `json:"plan"`
	Comment string       `json:"comment,omitempty"`
}
