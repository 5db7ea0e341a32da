package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cartpilot/backend/internal/domain"
)

const maxMatchCandidates = 10

// ItemPipeline drives one grocery item through search, matching, navigation
// and cart-add, and classifies the outcome. Every item ends in exactly one
// terminal result; failures scoped to the item never escape the pipeline.
type ItemPipeline struct {
	store     domain.Storefront
	reasoning domain.ReasoningClient
}

// NewItemPipeline creates a pipeline over the given capabilities.
func NewItemPipeline(store domain.Storefront, reasoning domain.ReasoningClient) *ItemPipeline {
	return &ItemPipeline{
		store:     store,
		reasoning: reasoning,
	}
}

// Process runs the pipeline for one item on the shared page. The returned
// result always has exactly one status; panics and errors inside the item's
// scope are converted to an error result.
func (p *ItemPipeline) Process(ctx context.Context, page domain.PageController, item domain.GroceryItem) (result domain.ItemResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ITEM] panic while processing %q: %v", item.Name, r)
			result = errorResult(item, fmt.Sprintf("internal failure: %v", r))
		}
	}()

	log.Printf("[ITEM] starting automation for %q (quantity %d)", item.Name, item.Quantity)

	// Searching
	query := buildEnhancedQuery(item)
	candidates, err := p.store.Search(ctx, page, query)
	if err != nil {
		if errors.Is(err, domain.ErrNoSearchResults) {
			return domain.ItemResult{
				Item:   item,
				Status: domain.StatusSkipped,
				Reason: "no search results found",
			}
		}
		return errorResult(item, fmt.Sprintf("search failed: %v", err))
	}
	if len(candidates) == 0 {
		return domain.ItemResult{
			Item:   item,
			Status: domain.StatusSkipped,
			Reason: "no search results found",
		}
	}

	if len(candidates) > maxMatchCandidates {
		candidates = candidates[:maxMatchCandidates]
	}

	// Matching
	decision, err := p.reasoning.BestMatch(ctx, item, candidates)
	if err != nil {
		return errorResult(item, fmt.Sprintf("matching failed: %v", err))
	}

	switch decision.Outcome {
	case domain.MatchSkip:
		return domain.ItemResult{
			Item:   item,
			Status: domain.StatusSkipped,
			Reason: decision.Reason,
		}
	case domain.MatchInvalid:
		// An unvalidatable reply is a hard failure for the item, not a skip.
		return errorResult(item, fmt.Sprintf("%v: %s", domain.ErrInvalidDecision, decision.Reason))
	case domain.MatchChosen:
		// proceed
	default:
		return errorResult(item, fmt.Sprintf("unexpected match outcome %q", decision.Outcome))
	}

	chosen := decision.Candidate
	log.Printf("[ITEM] chose %q for %q: %s", chosen.Name, item.Name, decision.Reason)

	// Navigating
	if err := page.Goto(ctx, chosen.Href); err != nil {
		return errorResult(item, fmt.Sprintf("navigate to product failed: %v", err))
	}

	// Adding to cart
	report, err := p.store.AddToCart(ctx, page, item.Quantity)
	if err != nil {
		return errorResult(item, fmt.Sprintf("add to cart failed: %v", err))
	}

	if !report.Found {
		return domain.ItemResult{
			Item:        item,
			Status:      domain.StatusNotAdded,
			Reason:      decision.Reason,
			Suggestions: []string{"Add to Cart control not found or failed to click."},
		}
	}

	if report.SuccessfulClicks < report.RequestedClicks {
		log.Printf("[ITEM] %q: only %d/%d add-to-cart clicks succeeded",
			item.Name, report.SuccessfulClicks, report.RequestedClicks)
	}

	// A located control reports added even when some clicks failed; the
	// click counts above are the hook for a stricter mode.
	return domain.ItemResult{
		Item:        item,
		Status:      domain.StatusAdded,
		Reason:      decision.Reason,
		ProductName: chosen.Name,
		Href:        chosen.Href,
		Price:       chosen.Price,
	}
}

// buildEnhancedQuery appends preference hints to the item name so the search
// itself narrows the result list.
func buildEnhancedQuery(item domain.GroceryItem) string {
	var sb strings.Builder
	sb.WriteString(item.Name)

	if item.Preferences.Brand != "" {
		sb.WriteString(" ")
		sb.WriteString(item.Preferences.Brand)
	}
	if item.Preferences.Organic {
		sb.WriteString(" organic")
	}
	if item.Preferences.Country != "" {
		sb.WriteString(" from ")
		sb.WriteString(item.Preferences.Country)
	}
	if item.Preferences.LowestPrice {
		sb.WriteString(" cheapest")
	}

	return sb.String()
}

func errorResult(item domain.GroceryItem, message string) domain.ItemResult {
	return domain.ItemResult{
		Item:   item,
		Status: domain.StatusError,
		Error:  message,
	}
}
