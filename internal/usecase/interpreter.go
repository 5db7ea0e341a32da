package usecase

import (
	"context"
	"log"
	"time"

	"github.com/cartpilot/backend/internal/domain"
)

// clickByTextTags is the fixed scan order for clickByText steps.
var clickByTextTags = []string{"a", "button", "span", "div"}

// StepOutcome records how one plan step went. Err is nil for a successful
// step; failed steps stay in the slice so diagnostics can show the whole run.
type StepOutcome struct {
	Step domain.ActionStep
	Err  error
}

// PlanInterpreter executes action plans against a page-control capability.
//
// Failure policy: a step that fails is logged and recorded, and execution
// proceeds to the next step. Plans routinely contain speculative steps (a
// consent dialog that may not exist, an optional wait), so a partial plan is
// worth more than an aborted one. The interpreter never retries a step;
// recovery happens at whole-goal granularity in the GoalRunner.
type PlanInterpreter struct {
	settleDelay time.Duration
	waitTimeout time.Duration
}

// NewPlanInterpreter creates an interpreter. settleDelay is inserted after
// every step so asynchronous page updates land before the next step runs.
func NewPlanInterpreter(settleDelay, waitTimeout time.Duration) *PlanInterpreter {
	if settleDelay <= 0 {
		settleDelay = 300 * time.Millisecond
	}
	if waitTimeout <= 0 {
		waitTimeout = 30 * time.Second
	}
	return &PlanInterpreter{
		settleDelay: settleDelay,
		waitTimeout: waitTimeout,
	}
}

// Execute runs the steps strictly in order and returns one outcome per step.
// It returns early only when ctx is done.
func (pi *PlanInterpreter) Execute(ctx context.Context, page domain.PageController, steps []domain.ActionStep) []StepOutcome {
	outcomes := make([]StepOutcome, 0, len(steps))

	for _, step := range steps {
		if ctx.Err() != nil {
			return outcomes
		}

		err := pi.executeStep(ctx, page, step)
		if err != nil {
			log.Printf("[PLAN] step %s failed: %v", step.Type, err)
		}
		outcomes = append(outcomes, StepOutcome{Step: step, Err: err})

		select {
		case <-ctx.Done():
			return outcomes
		case <-time.After(pi.settleDelay):
		}
	}

	return outcomes
}

// executeStep validates and performs a single step. A missing required field
// is a local failure for this step only.
func (pi *PlanInterpreter) executeStep(ctx context.Context, page domain.PageController, step domain.ActionStep) error {
	if err := step.Validate(); err != nil {
		return err
	}

	switch step.Type {
	case domain.StepClick:
		return page.Click(ctx, step.Selector)
	case domain.StepClickByText:
		return page.ClickByVisibleText(ctx, clickByTextTags, step.Text)
	case domain.StepTypeText:
		return page.TypeText(ctx, step.Selector, step.Value)
	case domain.StepPress:
		return page.PressKey(ctx, step.Key)
	case domain.StepGoto:
		return page.Goto(ctx, step.URL)
	case domain.StepWaitForSelector:
		return page.WaitForSelector(ctx, step.Selector, pi.waitTimeout)
	case domain.StepSelect:
		return page.SelectOption(ctx, step.Selector, step.Value)
	case domain.StepLog:
		message := step.Message
		if message == "" {
			message = "log step"
		}
		log.Printf("[PLAN] %s", message)
		return nil
	}

	// Validate already rejected unknown kinds.
	return nil
}
