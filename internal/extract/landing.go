package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

// Selector set for the landing-page layout generation.
const (
	landingContainer   = "div.ui-search-result__wrapper"
	landingBrand       = "span.poly-component__brand"
	landingName        = "h3.poly-component__title-wrapper a"
	landingOldPrice    = "s.andes-money-amount.andes-money-amount--previous.andes-money-amount--cents-comma span.andes-money-amount__fraction"
	landingNewPrice    = "div.poly-price__current span.andes-money-amount__fraction"
	landingRating      = "span.poly-reviews__rating"
	landingReviewCount = "span.poly-reviews__total"
)

// LandingExtractor handles the markup generation used on the initial search
// results page.
type LandingExtractor struct{}

// NewLanding creates a LandingExtractor.
func NewLanding() *LandingExtractor {
	return &LandingExtractor{}
}

// Extract implements Extractor for the landing-page layout.
func (e *LandingExtractor) Extract(doc *goquery.Document) (Result, error) {
	if err := requireDoc(doc); err != nil {
		return Result{}, err
	}

	var listings []listing.Raw
	doc.Find(landingContainer).Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, listing.Raw{
			Brand:       textOrNil(card.Find(landingBrand)),
			Name:        textOrNil(card.Find(landingName)),
			OldPrice:    textOrNil(card.Find(landingOldPrice)),
			NewPrice:    textOrNil(card.Find(landingNewPrice)),
			Rating:      textOrNil(card.Find(landingRating)),
			ReviewCount: reviewCountText(card.Find(landingReviewCount)),
		})
	})

	return Result{Listings: listings, NextURL: nextLink(doc)}, nil
}
