package domain

import (
	"context"
	"time"
)

// PageController is the automation surface the core depends on. It may be a
// real browser, a headless engine, or a test fake; callers hold it as a
// capability passed down the call chain, never as shared global state.
type PageController interface {
	Goto(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	// ClickByVisibleText scans elements of the given tags in document order,
	// finds the first whose visible text contains substring
	// (case-insensitive), scrolls it into view and clicks it.
	ClickByVisibleText(ctx context.Context, tags []string, substring string) error
	TypeText(ctx context.Context, selector, value string) error
	PressKey(ctx context.Context, key string) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	SelectOption(ctx context.Context, selector, value string) error
	// Content returns a snapshot of the current page HTML.
	Content(ctx context.Context) (string, error)
	// Evaluate runs a JavaScript expression and unmarshals its result into out.
	Evaluate(ctx context.Context, expression string, out any) error
	CurrentURL(ctx context.Context) (string, error)
}

// ReasoningClient defines the two request shapes the core sends to the
// external reasoning service. Replies are validated at this boundary; nothing
// loosely typed crosses it.
type ReasoningClient interface {
	// BestMatch asks the service to pick one candidate for the item, or to
	// decline. Candidates are presented 1-indexed with 0 reserved for
	// "no match". An unvalidatable reply yields MatchInvalid, never a guess.
	BestMatch(ctx context.Context, item GroceryItem, candidates []ProductCandidate) (MatchDecision, error)

	// GeneratePlan asks the service for a fresh action plan that accomplishes
	// goal against the given page snapshot.
	GeneratePlan(ctx context.Context, goal, pageHTML string) (*ActionPlan, error)
}

// Storefront groups the site-specific operations the pipeline needs. All of
// them act through the PageController they are handed.
type Storefront interface {
	// Search runs the search-box flow for query and scrapes the ranked
	// result list, truncated to at most ten candidates.
	Search(ctx context.Context, page PageController, query string) ([]ProductCandidate, error)

	// AddToCart probes known add-to-cart controls and clicks the first one
	// found quantity times. Individual click failures are tolerated and
	// reflected in the report, not returned as errors.
	AddToCart(ctx context.Context, page PageController, quantity int) (CartAddReport, error)

	// OpenLanding returns the page to the known landing state.
	OpenLanding(ctx context.Context, page PageController) error

	// OpenCart navigates to the cart view.
	OpenCart(ctx context.Context, page PageController) error
}
