// Package store persists normalized product listings. The table is a
// snapshot, not a log: every run replaces the prior contents wholesale, so
// readers either see the previous complete run or the new one, never a mix.
package store

import (
	"context"
	"regexp"

	"github.com/mercalytics/catalog-crawler/internal/listing"
)

// Store writes one run's worth of products with full-replace semantics.
type Store interface {
	// ReplaceAll atomically discards all prior rows of the catalog table and
	// inserts the given products as the new complete contents.
	ReplaceAll(ctx context.Context, products []listing.Product) error

	// Close releases the underlying connection resources.
	Close() error
}

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidTableName reports whether name is usable as a SQL identifier. Table
// names come from configuration and are interpolated into DDL, so anything
// else is rejected up front.
func ValidTableName(name string) bool {
	return validTableName.MatchString(name)
}

// NoOp is a Store that discards everything. Useful for dry runs and tests.
type NoOp struct{}

// ReplaceAll for NoOp does nothing.
func (NoOp) ReplaceAll(_ context.Context, _ []listing.Product) error { return nil }

// Close for NoOp does nothing.
func (NoOp) Close() error { return nil }
