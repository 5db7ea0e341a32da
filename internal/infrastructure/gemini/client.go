package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cartpilot/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// Client handles communication with the Gemini generateContent API. It
// implements domain.ReasoningClient.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Gemini API client. requestsPerMinute bounds the
// call rate across all goals and items sharing this client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, requestsPerMinute int) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug toggles verbose logging of prompts and raw replies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// generateRequest mirrors the generateContent request body
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse holds the subset of the reply the client reads
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt and returns the first candidate's text.
// Transport and 5xx failures are retried with linear backoff.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	if c.debug {
		log.Printf("[GEMINI] prompt (%d bytes): %.200s...", len(prompt), prompt)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[GEMINI] request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrReasoningFailure, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[GEMINI] API error (attempt %d) - Status: %d, Body: %.300s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrReasoningFailure, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				// Client errors will not heal on retry
				return "", lastErr
			}
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var genResp generateResponse
		if err := json.Unmarshal(body, &genResp); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}

		if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("%w: empty candidate list", domain.ErrReasoningFailure)
		}

		text := genResp.Candidates[0].Content.Parts[0].Text
		if c.debug {
			log.Printf("[GEMINI] reply: %.300s", text)
		}
		return text, nil
	}

	log.Printf("[GEMINI] all retries failed")
	return "", lastErr
}

// BestMatch implements domain.ReasoningClient. The reply is decoded and
// range-checked at this boundary; an unvalidatable reply comes back as a
// MatchInvalid decision, never as an error and never as a fabricated choice.
func (c *Client) BestMatch(ctx context.Context, item domain.GroceryItem, candidates []domain.ProductCandidate) (domain.MatchDecision, error) {
	prompt := buildMatchPrompt(item, candidates)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return domain.MatchDecision{}, err
	}

	decision := DecodeMatchDecision(raw, candidates)
	log.Printf("[GEMINI] match for %q: %s (%s)", item.Name, decision.Outcome, decision.Reason)
	return decision, nil
}

// GeneratePlan implements domain.ReasoningClient.
func (c *Client) GeneratePlan(ctx context.Context, goal, pageHTML string) (*domain.ActionPlan, error) {
	prompt := buildPlanPrompt(goal, pageHTML)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	plan, err := DecodeActionPlan(raw)
	if err != nil {
		log.Printf("[GEMINI] plan decode failed for goal %q: %v", goal, err)
		return nil, err
	}

	log.Printf("[GEMINI] plan for goal %q: %d steps", goal, len(plan.Plan))
	return plan, nil
}
