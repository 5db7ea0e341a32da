package storefront

// Selectors for the retail site's search and product pages. Kept in one place
// because they break together when the site layout changes.
const (
	// SearchBoxSelector is the main search input on every page.
	SearchBoxSelector = "#twotabsearchtextbox"

	// SearchResultSelector matches one result card in the search listing.
	SearchResultSelector = ".s-main-slot .s-result-item"

	// Inside one result card:
	resultLinkSelector  = `a.a-link-normal[href*="/dp/"]`
	resultBrandSelector = "h2 .a-size-base-plus"
	resultTitleSelector = "a h2[aria-label] span"
	resultPriceSelector = ".a-price .a-offscreen"
)

// cartButtonSelectors is the ordered probe list for the add-to-cart control.
// Product pages render one of several layouts; the first selector that
// becomes visible within the probe timeout wins.
var cartButtonSelectors = []string{
	`#desktop_buybox input[type="submit"]`,
	`#freshAddToCartButton input[type="submit"]`,
	`#add-to-cart-button`,
	`input[name="submit.add-to-cart"]`,
	`#submit.add-to-cart`,
}
