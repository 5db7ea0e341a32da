package domain

// Preferences holds the optional constraints a shopper attaches to one item.
type Preferences struct {
	Brand       string `json:"brand,omitempty"`
	Organic     bool   `json:"organic,omitempty"`
	Country     string `json:"country,omitempty"`
	LowestPrice bool   `json:"lowestPrice,omitempty"`
}

// GroceryItem is one requested item. It is owned by the caller and never
// mutated once submitted.
type GroceryItem struct {
	Name        string      `json:"name"`
	Quantity    int         `json:"quantity"`
	Preferences Preferences `json:"preferences"`
}

// ProductCandidate is one scraped search result eligible for matching.
// Price is an opaque display string ("$3.49", "unknown") and is never parsed.
type ProductCandidate struct {
	Href  string `json:"href"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Price string `json:"price"`
}

// ItemStatus is the terminal classification of one pipeline run.
type ItemStatus string

const (
	StatusAdded    ItemStatus = "added"
	StatusSkipped  ItemStatus = "skipped"
	StatusNotAdded ItemStatus = "not_added"
	StatusError    ItemStatus = "error"
)

// ItemResult is the per-item outcome record. Status determines which optional
// fields are meaningful: added carries ProductName/Href/Price, not_added
// carries Suggestions, error carries Error, skipped carries only Reason.
type ItemResult struct {
	Item        GroceryItem `json:"item"`
	Status      ItemStatus  `json:"status"`
	Reason      string      `json:"reason,omitempty"`
	ProductName string      `json:"productName,omitempty"`
	Href        string      `json:"href,omitempty"`
	Price       string      `json:"price,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// BatchResult holds one ItemResult per input item, in input order.
type BatchResult []ItemResult

// AddedCount returns how many items reached the cart.
func (b BatchResult) AddedCount() int {
	count := 0
	for _, r := range b {
		if r.Status == StatusAdded {
			count++
		}
	}
	return count
}

// CartAddReport describes the outcome of an add-to-cart attempt. Found is true
// once a known control was located; SuccessfulClicks may be lower than
// RequestedClicks because individual click failures are tolerated.
type CartAddReport struct {
	Found            bool
	Selector         string
	RequestedClicks  int
	SuccessfulClicks int
}
