package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cartpilot/backend/internal/domain"
)

// pageCall records one operation performed against the fake page.
type pageCall struct {
	op  string
	arg string
}

// fakePage is an in-memory domain.PageController that records every call and
// can be told to fail specific operations.
type fakePage struct {
	calls   []pageCall
	failOps map[string]error
	content string
}

func newFakePage() *fakePage {
	return &fakePage{
		failOps: make(map[string]error),
		content: "<html><body>fake</body></html>",
	}
}

func (p *fakePage) record(op, arg string) error {
	p.calls = append(p.calls, pageCall{op: op, arg: arg})
	return p.failOps[op]
}

func (p *fakePage) ops() []string {
	ops := make([]string, len(p.calls))
	for i, c := range p.calls {
		ops[i] = c.op
	}
	return ops
}

func (p *fakePage) countOp(op string) int {
	count := 0
	for _, c := range p.calls {
		if c.op == op {
			count++
		}
	}
	return count
}

func (p *fakePage) Goto(ctx context.Context, url string) error {
	return p.record("goto", url)
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	return p.record("click", selector)
}

func (p *fakePage) ClickByVisibleText(ctx context.Context, tags []string, substring string) error {
	return p.record("clickByText", substring)
}

func (p *fakePage) TypeText(ctx context.Context, selector, value string) error {
	return p.record("type", selector+"="+value)
}

func (p *fakePage) PressKey(ctx context.Context, key string) error {
	return p.record("press", key)
}

func (p *fakePage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	return p.record("wait", selector)
}

func (p *fakePage) SelectOption(ctx context.Context, selector, value string) error {
	return p.record("select", selector+"="+value)
}

func (p *fakePage) Content(ctx context.Context) (string, error) {
	if err := p.record("content", ""); err != nil {
		return "", err
	}
	return p.content, nil
}

func (p *fakePage) Evaluate(ctx context.Context, expression string, out any) error {
	return p.record("evaluate", expression)
}

func (p *fakePage) CurrentURL(ctx context.Context) (string, error) {
	if err := p.record("url", ""); err != nil {
		return "", err
	}
	return "https://example.com/", nil
}

// stubReasoning is a deterministic domain.ReasoningClient. Plan replies are
// consumed in order so tests can script failing and succeeding attempts.
type stubReasoning struct {
	decision       domain.MatchDecision
	decisionErr    error
	matchCalls     int
	planReplies    []planReply
	planCalls      int
	lastPlanGoal   string
	lastCandidates []domain.ProductCandidate
}

type planReply struct {
	plan *domain.ActionPlan
	err  error
}

func (s *stubReasoning) BestMatch(ctx context.Context, item domain.GroceryItem, candidates []domain.ProductCandidate) (domain.MatchDecision, error) {
	s.matchCalls++
	s.lastCandidates = candidates
	if s.decisionErr != nil {
		return domain.MatchDecision{}, s.decisionErr
	}
	return s.decision, nil
}

func (s *stubReasoning) GeneratePlan(ctx context.Context, goal, pageHTML string) (*domain.ActionPlan, error) {
	s.planCalls++
	s.lastPlanGoal = goal
	if len(s.planReplies) == 0 {
		return nil, fmt.Errorf("stub has no plan reply for call %d", s.planCalls)
	}
	reply := s.planReplies[0]
	if len(s.planReplies) > 1 {
		s.planReplies = s.planReplies[1:]
	}
	return reply.plan, reply.err
}

// stubStorefront is a scripted domain.Storefront.
type stubStorefront struct {
	searchResults []domain.ProductCandidate
	searchErr     error
	searchCalls   int
	lastQuery     string

	report   domain.CartAddReport
	addErr   error
	addCalls int

	landingCalls int
	landingErr   error
	cartCalls    int
	cartErr      error

	panicOnAdd bool
}

func (s *stubStorefront) Search(ctx context.Context, page domain.PageController, query string) ([]domain.ProductCandidate, error) {
	s.searchCalls++
	s.lastQuery = query
	return s.searchResults, s.searchErr
}

func (s *stubStorefront) AddToCart(ctx context.Context, page domain.PageController, quantity int) (domain.CartAddReport, error) {
	s.addCalls++
	if s.panicOnAdd {
		panic("cart layout changed underneath us")
	}
	report := s.report
	report.RequestedClicks = quantity
	return report, s.addErr
}

func (s *stubStorefront) OpenLanding(ctx context.Context, page domain.PageController) error {
	s.landingCalls++
	return s.landingErr
}

func (s *stubStorefront) OpenCart(ctx context.Context, page domain.PageController) error {
	s.cartCalls++
	return s.cartErr
}
