package domain

// MatchOutcome tags a MatchDecision. Exactly one outcome applies per call.
type MatchOutcome string

const (
	// MatchChosen means the reasoning service picked one candidate.
	MatchChosen MatchOutcome = "chosen"
	// MatchSkip means the service judged none of the candidates suitable.
	MatchSkip MatchOutcome = "skip"
	// MatchInvalid means the service reply failed schema or range validation.
	// Callers must treat it as a hard failure for the item, never as a skip.
	MatchInvalid MatchOutcome = "invalid"
)

// MatchDecision is the validated, tagged result of one matching call.
// Candidate is meaningful only when Outcome is MatchChosen.
type MatchDecision struct {
	Outcome   MatchOutcome
	Candidate ProductCandidate
	Reason    string
}
