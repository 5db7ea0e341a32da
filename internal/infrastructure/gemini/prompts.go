package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cartpilot/backend/internal/domain"
)

// planBoilerplates seed the plan prompt with a known-good example for common
// goal categories so the model anchors on real selectors. Checked in order;
// the first matching category wins.
var planBoilerplates = []struct {
	category string
	example  string
}{
	{"search", `[
  { "type": "type", "selector": "#twotabsearchtextbox", "value": "banana" },
  { "type": "click", "selector": "#nav-search-submit-button" }
]`},
	{"add to cart", `[
  { "type": "click", "selector": "input[type='submit']" }
]`},
	{"click the best result", `[
  { "type": "click", "selector": ".s-main-slot [data-asin]:not([data-asin='']) a.a-link-normal[href*='/dp/']" }
]`},
}

// buildMatchPrompt renders the match request. Candidates are presented
// 1-indexed; 0 is reserved for "no suitable candidate". The selection rules
// are stated as constraints rather than a plain ranking ask.
func buildMatchPrompt(item domain.GroceryItem, candidates []domain.ProductCandidate) string {
	prefs, _ := json.MarshalIndent(item.Preferences, "", "  ")

	var listing strings.Builder
	for i, c := range candidates {
		brand := c.Brand
		if brand == "" {
			brand = "unknown"
		}
		fmt.Fprintf(&listing, "%d. Name: %s\n   Brand: %s\n   Price: %s\n\n", i+1, c.Name, brand, c.Price)
	}

	return fmt.Sprintf(`You are a smart grocery shopping assistant helping the user select the most appropriate product from retail search results.

User is shopping for: %q
Preferences: %s

Selection Rules:
1. If the user explicitly specifies a form (e.g. powder, peeled, frozen, chopped, paste), choose a product that matches that form.
2. If no form is specified, prefer the natural, raw, fresh, or whole version of the item.
3. Do NOT choose processed, frozen, cooked, sauced, or derivative forms (e.g. snacks, sauces, powders) unless the user requested them.
4. Avoid "combo" or "multi-pack" items unless it clearly aligns with the user's expected quantity. Prefer individual items or smaller packs if available.

If NONE of the results are appropriate or relevant to the item %q, then return:
{
  "index": 0,
  "reason": "No relevant product found in the list."
}

Product Results:
Top %d results:
%s
Task:
Pick the best product from the list above based on the user's preferences and the rules above.

Return a valid JSON object in this strict format (no markdown or comments):

{
  "index": number,
  "reason": "string"
}

The index must be a number between 1 and %d, or 0 if no match was found.
Do not return multiple products. Do not include explanations outside of the JSON object.`,
		item.Name, string(prefs), item.Name, len(candidates), listing.String(), len(candidates))
}

// buildPlanPrompt renders the plan request with the current page snapshot and
// an example plan when the goal falls into a known category.
func buildPlanPrompt(goal, pageHTML string) string {
	boilerplate := "(no example available)"
	goalLower := strings.ToLower(goal)
	for _, b := range planBoilerplates {
		if strings.Contains(goalLower, b.category) {
			boilerplate = b.example
			break
		}
	}

	return fmt.Sprintf(`You are a shopping automation AI agent helping a user complete a task on a retail website.

Goal: %s
Example plan for this goal:
%s

Rules:
1. DO NOT invent product names or selectors. Use only what is found in the HTML snapshot below.
2. DO NOT guess or hallucinate query selectors like "#add-to-cart-button". That selector is often missing.
3. The only valid way to trigger "Add to Cart" is a real button or input with visible text like "Add to Cart". Prefer input[type="submit"] if it exists in the HTML.
4. DO NOT return "clickByText" with single-letter text. It is invalid.
5. If a valid Add to Cart button cannot be found, SKIP the step - the agent will handle that case.

Supported action types:
- "click"
- "clickByText"
- "type"
- "press"
- "select"
- "waitForSelector"
- "goto"
- "log"

Output format (strict JSON):
{
  "plan": [
    { "type": "click", "selector": "input[type='submit']" }
  ]
}

HTML snapshot:
%s`, goal, boilerplate, pageHTML)
}
