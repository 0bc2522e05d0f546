// Package extract turns parsed catalog search pages into raw listings.
//
// The source site renders the initial landing page and subsequent paginated
// pages with different markup structures. Each structure gets its own
// Extractor implementation with its own selector set, but both produce the
// identical Raw schema, so downstream stages never care which layout a
// record came from.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

// Result holds everything extracted from one page: the listings in document
// order and the next-page link, which is empty when the page has none. The
// link may be relative; resolving it against the page URL is the caller's
// job.
type Result struct {
	Listings []listing.Raw
	NextURL  string
}

// Extractor produces raw listings from a parsed page body. Implementations
// must never fail over absent elements; a missing field degrades to nil in
// the record. An error indicates the page itself is unusable.
type Extractor interface {
	Extract(doc *goquery.Document) (Result, error)
}

// Both layout generations share the pagination control markup.
const nextPageSelector = "li.andes-pagination__button.andes-pagination__button--next a"

func nextLink(doc *goquery.Document) string {
	href, _ := doc.Find(nextPageSelector).First().Attr("href")
	return strings.TrimSpace(href)
}

// textOrNil returns the trimmed text of the first matched element, or nil
// when the selector matches nothing.
func textOrNil(s *goquery.Selection) *string {
	if s.Length() == 0 {
		return nil
	}
	t := strings.TrimSpace(s.First().Text())
	return &t
}

// reviewCountText returns the raw review count with enclosing parentheses
// stripped. A missing or empty element defaults to "0" before stripping, so
// the field is never absent in the raw record.
func reviewCountText(s *goquery.Selection) string {
	t := "0"
	if s.Length() > 0 {
		if v := strings.TrimSpace(s.First().Text()); v != "" {
			t = v
		}
	}
	return strings.Trim(t, "()")
}

func requireDoc(doc *goquery.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	return nil
}
