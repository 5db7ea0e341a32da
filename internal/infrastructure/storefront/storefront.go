package storefront

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cartpilot/backend/config"
	"github.com/cartpilot/backend/internal/domain"
)

const maxCandidates = 10

// Client implements domain.Storefront for the target retail site. It holds
// only configuration; every operation acts through the PageController it is
// handed, so one client serves any number of sessions.
type Client struct {
	landingURL    string
	cartURL       string
	probeTimeout  time.Duration
	searchTimeout time.Duration
	clickDelay    time.Duration
	waitTimeout   time.Duration
}

// New creates a storefront client from configuration.
func New(cfg config.StorefrontConfig, auto config.AutomationConfig) *Client {
	probeTimeout := auto.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = time.Second
	}
	searchTimeout := auto.SearchTimeout
	if searchTimeout <= 0 {
		searchTimeout = 5 * time.Second
	}
	clickDelay := auto.ClickDelay
	if clickDelay <= 0 {
		clickDelay = time.Second
	}
	waitTimeout := auto.WaitTimeout
	if waitTimeout <= 0 {
		waitTimeout = 30 * time.Second
	}

	return &Client{
		landingURL:    cfg.LandingURL,
		cartURL:       cfg.CartURL,
		probeTimeout:  probeTimeout,
		searchTimeout: searchTimeout,
		clickDelay:    clickDelay,
		waitTimeout:   waitTimeout,
	}
}

// scrapeResultsScript maps the top result cards to candidate objects.
// Entries without a product link or a name are filtered out; a missing price
// falls back to "unknown" rather than an empty display string.
var scrapeResultsScript = fmt.Sprintf(`Array.from(document.querySelectorAll(%q))
	.slice(0, %d)
	.map(item => {
		const anchor = item.querySelector(%q);
		const brandEl = item.querySelector(%q);
		const titleEl = item.querySelector(%q);
		const priceEl = item.querySelector(%q);
		const href = anchor ? anchor.href : '';
		const brand = brandEl ? brandEl.textContent.trim() : '';
		const title = titleEl ? titleEl.textContent.trim() : '';
		return {
			href: href,
			name: (brand + ' ' + title).trim(),
			brand: brand,
			price: priceEl ? priceEl.textContent.trim() : 'unknown',
		};
	})
	.filter(p => p.href && p.name)`,
	SearchResultSelector, maxCandidates,
	resultLinkSelector, resultBrandSelector, resultTitleSelector, resultPriceSelector)

// Search implements domain.Storefront. It clears the search box, submits the
// query and scrapes the ranked result list in site presentation order.
func (c *Client) Search(ctx context.Context, page domain.PageController, query string) ([]domain.ProductCandidate, error) {
	if err := page.WaitForSelector(ctx, SearchBoxSelector, c.waitTimeout); err != nil {
		return nil, fmt.Errorf("search box: %w", err)
	}

	// Clear any leftover text from the previous item before typing.
	clearScript := fmt.Sprintf(`(() => {
		const box = document.querySelector(%q);
		if (box) { box.value = ''; }
		return true;
	})()`, SearchBoxSelector)
	var cleared bool
	if err := page.Evaluate(ctx, clearScript, &cleared); err != nil {
		return nil, fmt.Errorf("clear search box: %w", err)
	}

	if err := page.TypeText(ctx, SearchBoxSelector, query); err != nil {
		return nil, fmt.Errorf("type query: %w", err)
	}
	if err := page.PressKey(ctx, "Enter"); err != nil {
		return nil, fmt.Errorf("submit query: %w", err)
	}

	if err := page.WaitForSelector(ctx, SearchResultSelector, c.searchTimeout); err != nil {
		log.Printf("[STORE] no result cards for %q: %v", query, err)
		return nil, domain.ErrNoSearchResults
	}

	var candidates []domain.ProductCandidate
	if err := page.Evaluate(ctx, scrapeResultsScript, &candidates); err != nil {
		return nil, fmt.Errorf("scrape results: %w", err)
	}

	if len(candidates) == 0 {
		return nil, domain.ErrNoSearchResults
	}

	log.Printf("[STORE] %d candidates for %q", len(candidates), query)
	return candidates, nil
}

// AddToCart implements domain.Storefront. It probes the known control
// selectors in order and clicks the first hit quantity times. A located
// control whose individual clicks fail still reports Found; callers read
// SuccessfulClicks when they need the stricter view.
func (c *Client) AddToCart(ctx context.Context, page domain.PageController, quantity int) (domain.CartAddReport, error) {
	report := domain.CartAddReport{RequestedClicks: quantity}

	for _, selector := range cartButtonSelectors {
		if err := page.WaitForSelector(ctx, selector, c.probeTimeout); err == nil {
			report.Found = true
			report.Selector = selector
			log.Printf("[CART] found add-to-cart control: %s", selector)
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}

	if !report.Found {
		log.Printf("[CART] no add-to-cart control matched any known selector")
		return report, nil
	}

	for i := 0; i < quantity; i++ {
		if err := page.Click(ctx, report.Selector); err != nil {
			log.Printf("[CART] click %d/%d failed: %v", i+1, quantity, err)
		} else {
			report.SuccessfulClicks++
			log.Printf("[CART] clicked add-to-cart (%d/%d)", i+1, quantity)
		}
		time.Sleep(c.clickDelay)
	}

	return report, nil
}

// OpenLanding implements domain.Storefront. The search box doubles as the
// readiness signal for the landing state.
func (c *Client) OpenLanding(ctx context.Context, page domain.PageController) error {
	if err := page.Goto(ctx, c.landingURL); err != nil {
		return err
	}
	return page.WaitForSelector(ctx, SearchBoxSelector, c.waitTimeout)
}

// OpenCart implements domain.Storefront.
func (c *Client) OpenCart(ctx context.Context, page domain.PageController) error {
	return page.Goto(ctx, c.cartURL)
}
