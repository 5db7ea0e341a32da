package browser

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/cartpilot/backend/config"
	"github.com/cartpilot/backend/internal/domain"
)

// Session is a chromedp-backed implementation of domain.PageController. One
// session owns one browser tab; the batch orchestrator holds it exclusively
// for the duration of a batch.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession launches a Chrome instance and opens its initial tab.
func NewSession(cfg config.BrowserConfig) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1440, 900),
	)
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			log.Printf("[BROWSER] "+format, args...)
		}),
	)

	// Start the browser eagerly so wiring fails fast when Chrome is missing.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}

	log.Printf("[BROWSER] session started (headless=%v)", cfg.Headless)

	return &Session{
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// run executes chromedp actions against the session tab, honoring the
// caller's context for cancellation.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.ctx, actions...)
}

// Goto navigates to url and waits for the document to become ready.
func (s *Session) Goto(ctx context.Context, url string) error {
	if err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Click waits for selector to become visible, then clicks it.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// ClickByVisibleText scans elements of the given tags in document order and
// clicks the first whose text contains substring, case-insensitively. The
// scan, scroll and click happen in one script evaluation because element
// handles do not survive across separate CDP round trips.
func (s *Session) ClickByVisibleText(ctx context.Context, tags []string, substring string) error {
	if len(tags) == 0 {
		tags = []string{"a", "button", "span", "div"}
	}

	script := fmt.Sprintf(`(() => {
		const needle = %s.toLowerCase();
		const els = document.querySelectorAll(%s);
		for (const el of els) {
			if ((el.textContent || '').toLowerCase().includes(needle)) {
				el.scrollIntoView({behavior: 'smooth', block: 'center'});
				el.click();
				return true;
			}
		}
		return false;
	})()`, jsString(substring), jsString(strings.Join(tags, ", ")))

	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return fmt.Errorf("click by text %q: %w", substring, err)
	}
	if !clicked {
		return fmt.Errorf("%w: no element containing text %q", domain.ErrSelectorNotFound, substring)
	}
	return nil
}

// TypeText waits for selector and sends value as keystrokes.
func (s *Session) TypeText(ctx context.Context, selector, value string) error {
	if err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("type into %s: %w", selector, err)
	}
	return nil
}

// PressKey sends one key event to the focused element.
func (s *Session) PressKey(ctx context.Context, key string) error {
	if err := s.run(ctx, chromedp.KeyEvent(keyForName(key))); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}
	return nil
}

// WaitForSelector blocks until selector is visible or timeout elapses.
func (s *Session) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx := s.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(s.ctx, timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		// A dead session must not masquerade as a missing selector.
		if sessionErr := s.ctx.Err(); sessionErr != nil {
			return fmt.Errorf("wait for %s: %w", selector, sessionErr)
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrSelectorNotFound, selector, err)
	}
	return nil
}

// SelectOption sets a select element's value.
func (s *Session) SelectOption(ctx context.Context, selector, value string) error {
	if err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("select %s on %s: %w", value, selector, err)
	}
	return nil
}

// Content snapshots the current page HTML.
func (s *Session) Content(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	return html, nil
}

// Evaluate runs a JavaScript expression and unmarshals the result into out.
func (s *Session) Evaluate(ctx context.Context, expression string, out any) error {
	return s.run(ctx, chromedp.Evaluate(expression, out))
}

// CurrentURL returns the tab's location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("current url: %w", err)
	}
	return url, nil
}
