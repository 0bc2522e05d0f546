package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

// Selector set for the paginated-results layout generation. Note the review
// count lives in a different element here than on the landing page.
const (
	resultsContainer   = "div.ui-search-result__wrapper"
	resultsBrand       = "span.ui-search-item__brand-discoverability.ui-search-item__group__element"
	resultsName        = "h2.ui-search-item__title.ui-search-item__group__element a"
	resultsOldPrice    = "s.andes-money-amount span.andes-money-amount__fraction"
	resultsNewPrice    = "div.ui-search-price__second-line span.andes-money-amount__fraction"
	resultsRating      = "span.ui-search-reviews__rating-number"
	resultsReviewCount = "span.ui-search-reviews__amount"
)

// ResultsExtractor handles the markup generation used on every paginated
// page after the first.
type ResultsExtractor struct{}

// NewResults creates a ResultsExtractor.
func NewResults() *ResultsExtractor {
	return &ResultsExtractor{}
}

// Extract implements Extractor for the paginated-results layout.
func (e *ResultsExtractor) Extract(doc *goquery.Document) (Result, error) {
	if err := requireDoc(doc); err != nil {
		return Result{}, err
	}

	var listings []listing.Raw
	doc.Find(resultsContainer).Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, listing.Raw{
			Brand:       textOrNil(card.Find(resultsBrand)),
			Name:        textOrNil(card.Find(resultsName)),
			OldPrice:    textOrNil(card.Find(resultsOldPrice)),
			NewPrice:    textOrNil(card.Find(resultsNewPrice)),
			Rating:      textOrNil(card.Find(resultsRating)),
			ReviewCount: reviewCountText(card.Find(resultsReviewCount)),
		})
	})

	return Result{Listings: listings, NextURL: nextLink(doc)}, nil
}
