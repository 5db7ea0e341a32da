package storefront

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cartpilot/backend/config"
	"github.com/cartpilot/backend/internal/domain"
)

// scriptedPage is a domain.PageController whose waits and evaluations are
// scripted per test. Every call is recorded as "op:arg".
type scriptedPage struct {
	calls []string

	waitErrs   map[string]error // selector -> error; absent means found
	scraped    []domain.ProductCandidate
	scrapeErr  error
	clickErr   error
	gotoErr    error
	clickCount int
}

func newScriptedPage() *scriptedPage {
	return &scriptedPage{waitErrs: make(map[string]error)}
}

func (p *scriptedPage) record(op, arg string) {
	p.calls = append(p.calls, op+":"+arg)
}

func (p *scriptedPage) Goto(ctx context.Context, url string) error {
	p.record("goto", url)
	return p.gotoErr
}

func (p *scriptedPage) Click(ctx context.Context, selector string) error {
	p.record("click", selector)
	p.clickCount++
	return p.clickErr
}

func (p *scriptedPage) ClickByVisibleText(ctx context.Context, tags []string, substring string) error {
	p.record("clickByText", substring)
	return nil
}

func (p *scriptedPage) TypeText(ctx context.Context, selector, value string) error {
	p.record("type", selector+"="+value)
	return nil
}

func (p *scriptedPage) PressKey(ctx context.Context, key string) error {
	p.record("press", key)
	return nil
}

func (p *scriptedPage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	p.record("wait", selector)
	return p.waitErrs[selector]
}

func (p *scriptedPage) SelectOption(ctx context.Context, selector, value string) error {
	p.record("select", selector+"="+value)
	return nil
}

func (p *scriptedPage) Content(ctx context.Context) (string, error) {
	p.record("content", "")
	return "<html></html>", nil
}

func (p *scriptedPage) Evaluate(ctx context.Context, expression string, out any) error {
	p.record("evaluate", "")
	switch v := out.(type) {
	case *bool:
		*v = true
		return nil
	case *[]domain.ProductCandidate:
		if p.scrapeErr != nil {
			return p.scrapeErr
		}
		*v = p.scraped
		return nil
	default:
		return errors.New("scriptedPage: unexpected evaluate target")
	}
}

func (p *scriptedPage) CurrentURL(ctx context.Context) (string, error) {
	p.record("url", "")
	return "https://example.com/", nil
}

func newTestClient() *Client {
	return New(
		config.StorefrontConfig{
			LandingURL: "https://store.example.com/",
			CartURL:    "https://store.example.com/cart",
		},
		config.AutomationConfig{
			ProbeTimeout:  time.Millisecond,
			SearchTimeout: time.Millisecond,
			ClickDelay:    time.Millisecond,
			WaitTimeout:   time.Millisecond,
		},
	)
}

func TestSearch_ReturnsScrapedCandidates(t *testing.T) {
	page := newScriptedPage()
	page.scraped = []domain.ProductCandidate{
		{Href: "https://store.example.com/dp/1", Name: "365 Organic Bananas", Brand: "365", Price: "$1.99"},
		{Href: "https://store.example.com/dp/2", Name: "Banana Bunch", Price: "unknown"},
	}

	candidates, err := newTestClient().Search(context.Background(), page, "banana organic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(candidates))
	}
	if candidates[0].Name != "365 Organic Bananas" {
		t.Errorf("candidates[0].Name = %q, want site presentation order preserved", candidates[0].Name)
	}

	// Box wait, clear, type, submit, result wait, scrape.
	want := []string{
		"wait:" + SearchBoxSelector,
		"evaluate:",
		"type:" + SearchBoxSelector + "=banana organic",
		"press:Enter",
		"wait:" + SearchResultSelector,
		"evaluate:",
	}
	if len(page.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", page.calls, want)
	}
	for i := range want {
		if page.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, page.calls[i], want[i])
		}
	}
}

func TestSearch_ResultTimeoutMeansNoResults(t *testing.T) {
	page := newScriptedPage()
	page.waitErrs[SearchResultSelector] = errors.New("timed out waiting for selector")

	_, err := newTestClient().Search(context.Background(), page, "banana")
	if !errors.Is(err, domain.ErrNoSearchResults) {
		t.Fatalf("error = %v, want ErrNoSearchResults", err)
	}
}

func TestSearch_EmptyScrapeMeansNoResults(t *testing.T) {
	page := newScriptedPage() // scraped stays nil

	_, err := newTestClient().Search(context.Background(), page, "banana")
	if !errors.Is(err, domain.ErrNoSearchResults) {
		t.Fatalf("error = %v, want ErrNoSearchResults", err)
	}
}

func TestSearch_ScrapeFailureIsNotNoResults(t *testing.T) {
	page := newScriptedPage()
	page.scrapeErr = errors.New("execution context destroyed")

	_, err := newTestClient().Search(context.Background(), page, "banana")
	if err == nil {
		t.Fatal("error = nil, want scrape failure")
	}
	if errors.Is(err, domain.ErrNoSearchResults) {
		t.Error("scrape failure misreported as no search results")
	}
}

func TestAddToCart_FirstMatchingProbeWins(t *testing.T) {
	page := newScriptedPage()
	// Probes 1 and 2 miss; probe 3 is the control on this layout.
	page.waitErrs[cartButtonSelectors[0]] = errors.New("timed out")
	page.waitErrs[cartButtonSelectors[1]] = errors.New("timed out")

	report, err := newTestClient().AddToCart(context.Background(), page, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Found {
		t.Fatal("Found = false, want true")
	}
	if report.Selector != cartButtonSelectors[2] {
		t.Errorf("Selector = %q, want %q", report.Selector, cartButtonSelectors[2])
	}
	if report.SuccessfulClicks != 2 || report.RequestedClicks != 2 {
		t.Errorf("clicks = %d/%d, want 2/2", report.SuccessfulClicks, report.RequestedClicks)
	}
	// Probing stops at the first hit.
	for _, call := range page.calls {
		if call == "wait:"+cartButtonSelectors[3] || call == "wait:"+cartButtonSelectors[4] {
			t.Errorf("probed %q after a hit", call)
		}
	}
}

func TestAddToCart_NoControlFound(t *testing.T) {
	page := newScriptedPage()
	for _, sel := range cartButtonSelectors {
		page.waitErrs[sel] = errors.New("timed out")
	}

	report, err := newTestClient().AddToCart(context.Background(), page, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Found {
		t.Error("Found = true, want false")
	}
	if page.clickCount != 0 {
		t.Errorf("clicks = %d, want 0 with no control", page.clickCount)
	}
}

func TestAddToCart_ClickFailuresAreTolerated(t *testing.T) {
	page := newScriptedPage()
	page.clickErr = errors.New("node detached")

	report, err := newTestClient().AddToCart(context.Background(), page, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Found {
		t.Fatal("Found = false, want true (control was located)")
	}
	if report.SuccessfulClicks != 0 {
		t.Errorf("SuccessfulClicks = %d, want 0", report.SuccessfulClicks)
	}
	if page.clickCount != 3 {
		t.Errorf("click attempts = %d, want all 3 despite failures", page.clickCount)
	}
}

func TestOpenLanding_WaitsForSearchBox(t *testing.T) {
	page := newScriptedPage()

	if err := newTestClient().OpenLanding(context.Background(), page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.calls[0] != "goto:https://store.example.com/" {
		t.Errorf("calls[0] = %q, want landing navigation", page.calls[0])
	}
	if page.calls[1] != "wait:"+SearchBoxSelector {
		t.Errorf("calls[1] = %q, want search box readiness wait", page.calls[1])
	}
}

func TestOpenLanding_NavigationFailurePropagates(t *testing.T) {
	page := newScriptedPage()
	page.gotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	err := newTestClient().OpenLanding(context.Background(), page)
	if err == nil {
		t.Fatal("error = nil, want navigation failure")
	}
}

func TestOpenCart_NavigatesToCartURL(t *testing.T) {
	page := newScriptedPage()

	if err := newTestClient().OpenCart(context.Background(), page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.calls) != 1 || page.calls[0] != "goto:https://store.example.com/cart" {
		t.Errorf("calls = %v, want single cart navigation", page.calls)
	}
}

func TestScrapeScriptTargetsResultCards(t *testing.T) {
	if !strings.Contains(scrapeResultsScript, SearchResultSelector) {
		t.Error("scrape script does not select result cards")
	}
	if !strings.Contains(scrapeResultsScript, "slice(0, 10)") {
		t.Error("scrape script does not cap the candidate list")
	}
}
