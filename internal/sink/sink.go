package sink

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mercalytics/catalog-crawler/internal/listing"
	"github.com/mercalytics/catalog-crawler/internal/store"
)

// Clock supplies the run timestamp. Injected so tests can pin it.
type Clock interface {
	Now() time.Time
}

// Sink stamps a run's products with uniform provenance metadata and lands
// them in the store with a single full-replace write. The run's output is
// not durable until Flush returns nil.
type Sink struct {
	store  store.Store
	clock  Clock
	source string
	logger *zap.Logger
}

// New constructs a Sink. source is the start URL stamped into every record.
func New(st store.Store, clock Clock, source string, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{store: st, clock: clock, source: source, logger: logger}
}

// Flush stamps every product with the source URL and a single crawl
// timestamp, then replaces the table contents. It returns the timestamp
// used.
func (s *Sink) Flush(ctx context.Context, products []listing.Product) (time.Time, error) {
	crawledAt := s.clock.Now()
	listing.Stamp(products, s.source, crawledAt)

	if err := s.store.ReplaceAll(ctx, products); err != nil {
		return time.Time{}, fmt.Errorf("replace table contents: %w", err)
	}

	s.logger.Info("Landed run output",
		zap.Int("rows", len(products)),
		zap.String("source", s.source),
		zap.Time("crawled_at", crawledAt),
	)
	return crawledAt, nil
}
