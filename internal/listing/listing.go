// Package listing defines the domain model for catalog product listings.
// Raw is what the page extractors produce; Product is the normalized,
// persisted entity. Keeping both shapes explicit makes the extract and
// normalize stages independently testable.
package listing

import "time"

// Raw is a single listing as extracted from page markup, before any type
// conversion. Every field is optional text: a missing element yields nil
// rather than an error. ReviewCount is a plain string because extraction
// always defaults it to "0" when the source element is absent.
type Raw struct {
	Brand       *string `json:"brand"`
	Name        *string `json:"name"`
	OldPrice    *string `json:"old_price"`
	NewPrice    *string `json:"new_price"`
	Rating      *string `json:"review_rating_number"`
	ReviewCount string  `json:"review_amount"`
}

// Product is the normalized listing written to the store. Pointer fields map
// to SQL NULL: a malformed or absent source field becomes nil, never an
// error, so one bad record cannot fail a batch. Brand and Name pass through
// untouched; display casing belongs to the presentation layer.
type Product struct {
	Brand       *string   `json:"brand" db:"brand"`
	Name        *string   `json:"name" db:"name"`
	OldPrice    *float64  `json:"old_price" db:"old_price"`
	NewPrice    *float64  `json:"new_price" db:"new_price"`
	Rating      *float64  `json:"review_rating_number" db:"review_rating_number"`
	ReviewCount *int64    `json:"review_amount" db:"review_amount"`
	Source      string    `json:"_source" db:"_source"`
	CrawledAt   time.Time `json:"_crawled_at" db:"_crawled_at"`
}

// Stamp sets the provenance metadata on every product in place. All records
// of one run carry the same source URL and timestamp.
func Stamp(products []Product, source string, crawledAt time.Time) {
	for i := range products {
		products[i].Source = source
		products[i].CrawledAt = crawledAt
	}
}
