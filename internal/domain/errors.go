package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoSearchResults is returned when a storefront search yields no candidates
	ErrNoSearchResults = errors.New("no search results found")

	// ErrInvalidDecision is returned when the reasoning service reply fails
	// schema or range validation and no choice can be trusted
	ErrInvalidDecision = errors.New("reasoning service returned an invalid decision")

	// ErrInvalidPlan is returned when a generated action plan cannot be
	// decoded or validated
	ErrInvalidPlan = errors.New("invalid action plan returned by reasoning service")

	// ErrGoalExhausted is returned when every attempt at a goal has failed
	ErrGoalExhausted = errors.New("exhausted retries for goal")

	// ErrSelectorNotFound is returned when a required selector never appears
	// within its timeout
	ErrSelectorNotFound = errors.New("selector not found")

	// ErrReasoningFailure is returned when the reasoning service request fails
	ErrReasoningFailure = errors.New("reasoning service request failed")

	// ErrSessionUnavailable is returned when the shared browser session cannot
	// be opened or has gone away; always batch-fatal
	ErrSessionUnavailable = errors.New("browser session unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
