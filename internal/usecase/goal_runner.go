package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cartpilot/backend/internal/domain"
)

// GoalRunner obtains an action plan for a natural-language goal and executes
// it, regenerating the plan on each retry. Plans are never replayed across
// attempts: the page state, and therefore the correct plan, may have changed
// since the failed attempt.
type GoalRunner struct {
	reasoning   domain.ReasoningClient
	interpreter *PlanInterpreter
	backoff     time.Duration
}

// NewGoalRunner creates a goal runner. backoff is the fixed wait between
// failed attempts.
func NewGoalRunner(reasoning domain.ReasoningClient, interpreter *PlanInterpreter, backoff time.Duration) *GoalRunner {
	if backoff <= 0 {
		backoff = time.Second
	}
	return &GoalRunner{
		reasoning:   reasoning,
		interpreter: interpreter,
		backoff:     backoff,
	}
}

// Run attempts the goal up to maxRetries+1 times. Each attempt snapshots the
// page, generates a fresh plan and executes it repeat times (repeat > 1
// serves goals that need the same actions applied repeatedly, like clicking
// an increase-quantity control). The first successful attempt ends the loop.
func (r *GoalRunner) Run(ctx context.Context, page domain.PageController, goal string, maxRetries, repeat int) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if repeat < 1 {
		repeat = 1
	}

	attempts := maxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		err := r.attempt(ctx, page, goal, repeat)
		if err == nil {
			return nil
		}

		log.Printf("[GOAL] attempt %d/%d for %q failed: %v", attempt, attempts, goal, err)

		if attempt == attempts {
			return fmt.Errorf("%w: %q", domain.ErrGoalExhausted, goal)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff):
		}
	}

	// Unreachable; the loop always returns.
	return fmt.Errorf("%w: %q", domain.ErrGoalExhausted, goal)
}

// attempt runs one snapshot-generate-execute cycle. Malformed plans abort the
// attempt, not the whole call.
func (r *GoalRunner) attempt(ctx context.Context, page domain.PageController, goal string, repeat int) error {
	html, err := page.Content(ctx)
	if err != nil {
		return fmt.Errorf("page snapshot: %w", err)
	}

	plan, err := r.reasoning.GeneratePlan(ctx, goal, html)
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}

	log.Printf("[GOAL] %q: executing %d-step plan", goal, len(plan.Plan))

	for i := 0; i < repeat; i++ {
		if repeat > 1 {
			log.Printf("[GOAL] repeating plan (%d/%d)", i+1, repeat)
		}
		r.interpreter.Execute(ctx, page, plan.Plan)
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}
