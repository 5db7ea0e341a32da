package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/cartpilot/backend/internal/domain"
)

// BatchService runs the item pipeline over a whole shopping list on one
// shared page, strictly sequentially: item N+1 never starts before item N is
// classified. The page is owned exclusively by the batch for its duration.
type BatchService struct {
	store    domain.Storefront
	pipeline *ItemPipeline
}

// NewBatchService creates a batch service.
func NewBatchService(store domain.Storefront, pipeline *ItemPipeline) *BatchService {
	return &BatchService{
		store:    store,
		pipeline: pipeline,
	}
}

// Run processes every item and returns one result per input item, in input
// order. An error return means a failure outside any single item's scope
// (batch-fatal); partial per-item failures come back inside the results.
func (s *BatchService) Run(ctx context.Context, page domain.PageController, items []domain.GroceryItem) (domain.BatchResult, error) {
	if err := s.store.OpenLanding(ctx, page); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}

	results := make(domain.BatchResult, 0, len(items))

	for i, item := range items {
		log.Printf("[BATCH] item %d/%d: %q", i+1, len(items), item.Name)
		results = append(results, s.pipeline.Process(ctx, page, item))

		// Return to the landing state before the next item; losing the
		// shared page is fatal for the rest of the batch.
		if i < len(items)-1 {
			if err := s.store.OpenLanding(ctx, page); err != nil {
				return nil, fmt.Errorf("%w: landing reset: %v", domain.ErrSessionUnavailable, err)
			}
		}
	}

	if added := results.AddedCount(); added > 0 {
		log.Printf("[BATCH] %d item(s) added, opening cart view", added)
		if err := s.store.OpenCart(ctx, page); err != nil {
			// The cart view is a confirmation convenience; the adds already
			// happened, so the batch still reports its results.
			log.Printf("[BATCH] cart view navigation failed: %v", err)
		}
	} else {
		log.Printf("[BATCH] no items added to cart")
	}

	return results, nil
}
