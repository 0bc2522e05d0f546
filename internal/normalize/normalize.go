// Package normalize converts raw extracted listing text into typed values.
// All functions are stateless and deterministic: a value either converts
// cleanly or becomes nil, so a malformed field can never fail a batch.
package normalize

import (
	"strconv"
	"strings"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

// Price converts locale-formatted price text to a float. Text using a comma
// decimal separator ("1.234,56") is canonicalized first: thousands dots are
// dropped and the comma becomes a period. Text without a comma is assumed to
// already carry a period decimal separator, which keeps the conversion
// idempotent when an already-typed value is fed back through as text.
// Empty or unparsable text yields nil.
func Price(text *string) *float64 {
	if text == nil {
		return nil
	}
	s := strings.TrimSpace(*text)
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// Rating parses review rating text directly. Ratings live on a 0 to 5
// scale; anything outside it, unparsable, or empty yields nil.
func Rating(text *string) *float64 {
	if text == nil {
		return nil
	}
	s := strings.TrimSpace(*text)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 5 {
		return nil
	}
	return &v
}

// ReviewCount parses review count text to an integer. Enclosing parentheses
// are stripped and empty text defaults to zero, so "(123)" becomes 123 and a
// missing element becomes 0. Genuinely unparsable text yields nil rather
// than zero, to keep "explicitly zero" distinct from "unknown".
func ReviewCount(text string) *int64 {
	s := strings.Trim(strings.TrimSpace(text), "()")
	if s == "" {
		s = "0"
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// Record converts one raw listing into a product. Brand and name pass
// through untouched; numeric fields go through the conversions above.
// Provenance fields are left zero for the sink to stamp.
func Record(raw listing.Raw) listing.Product {
	return listing.Product{
		Brand:       raw.Brand,
		Name:        raw.Name,
		OldPrice:    Price(raw.OldPrice),
		NewPrice:    Price(raw.NewPrice),
		Rating:      Rating(raw.Rating),
		ReviewCount: ReviewCount(raw.ReviewCount),
	}
}

// Records converts a batch of raw listings, preserving order. The output
// always has the same length as the input: records are never dropped.
func Records(raws []listing.Raw) []listing.Product {
	products := make([]listing.Product, 0, len(raws))
	for _, raw := range raws {
		products = append(products, Record(raw))
	}
	return products
}
