package crawl

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mercalytics/catalog-crawler/internal/extract"
	"github.com/mercalytics/catalog-crawler/internal/listing"
	"github.com/mercalytics/catalog-crawler/internal/metrics"
	"github.com/mercalytics/catalog-crawler/internal/normalize"
	"github.com/mercalytics/catalog-crawler/internal/paginate"
)

// Result is the output of one crawl run. Raw and Products are parallel
// slices in page order and, within a page, document order.
type Result struct {
	Raw      []listing.Raw
	Products []listing.Product
	Pages    int
	Outcome  paginate.State
	Duration time.Duration
}

// Orchestrator drives the sequential fetch -> extract -> normalize loop.
// Pages are fetched strictly one at a time because each next-page link is
// only known after the prior page has been parsed.
type Orchestrator struct {
	cfg        Config
	fetcher    Fetcher
	extractors map[paginate.Layout]extract.Extractor
	logger     *zap.Logger
}

// NewOrchestrator creates an Orchestrator with the default extractor per
// layout generation.
func NewOrchestrator(cfg Config, fetcher Fetcher, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		cfg:     cfg,
		fetcher: fetcher,
		extractors: map[paginate.Layout]extract.Extractor{
			paginate.LayoutLanding: extract.NewLanding(),
			paginate.LayoutResults: extract.NewResults(),
		},
		logger: logger,
	}
}

// Run executes the crawl until the pagination controller reaches a terminal
// state. Any fetch or page-parse failure aborts the whole run; record-level
// field defects never do. On success the result holds every listing in
// order, normalized but not yet stamped with provenance.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	if err := o.cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("crawl config: %w", err)
	}

	start := time.Now()
	controller := paginate.NewController(o.cfg.MaxPages)
	current := o.cfg.StartURL

	var result Result
	for {
		layout := controller.Layout()
		o.logger.Info("Fetching page",
			zap.String("url", current),
			zap.Stringer("layout", layout),
			zap.Int("page", controller.PagesVisited()+1),
		)

		page, err := o.fetcher.Fetch(ctx, current)
		if err != nil {
			return Result{}, fmt.Errorf("fetch %s: %w", current, err)
		}

		extracted, err := o.extractPage(page, layout)
		if err != nil {
			return Result{}, fmt.Errorf("extract %s: %w", current, err)
		}

		result.Raw = append(result.Raw, extracted.Listings...)
		for _, raw := range extracted.Listings {
			product := normalize.Record(raw)
			observeNullFields(product)
			result.Products = append(result.Products, product)
		}
		metrics.ObservePage(layout.String(), len(extracted.Listings), page.Duration)

		next := o.resolveNext(page, extracted.NextURL)
		if !controller.Advance(next) {
			break
		}
		current = next
	}

	result.Pages = controller.PagesVisited()
	result.Outcome = controller.State()
	result.Duration = time.Since(start)
	metrics.ObserveRun(result.Outcome.String(), result.Duration)

	o.logger.Info("Crawl finished",
		zap.Int("pages", result.Pages),
		zap.Int("listings", len(result.Products)),
		zap.Stringer("outcome", result.Outcome),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (o *Orchestrator) extractPage(page Page, layout paginate.Layout) (extract.Result, error) {
	if page.StatusCode != 0 && page.StatusCode != 200 {
		return extract.Result{}, fmt.Errorf("unexpected status %d", page.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return extract.Result{}, fmt.Errorf("parse page body: %w", err)
	}
	return o.extractors[layout].Extract(doc)
}

// resolveNext turns the extracted next-page link into an absolute URL.
// A link that cannot be resolved or leaves the allowed domain is treated as
// absent, which lets the controller terminate the run as exhausted.
func (o *Orchestrator) resolveNext(page Page, href string) string {
	if href == "" {
		return ""
	}
	base := page.URL
	if base == "" {
		base = o.cfg.StartURL
	}
	next, err := ResolveNext(base, href)
	if err != nil {
		o.logger.Warn("Dropping unresolvable next link", zap.String("href", href), zap.Error(err))
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || !hostAllowed(u.Hostname(), o.cfg.AllowedDomain) {
		o.logger.Warn("Dropping off-domain next link", zap.String("url", next))
		return ""
	}
	return next
}

func observeNullFields(p listing.Product) {
	if p.Brand == nil {
		metrics.IncNullField("brand")
	}
	if p.Name == nil {
		metrics.IncNullField("name")
	}
	if p.OldPrice == nil {
		metrics.IncNullField("old_price")
	}
	if p.NewPrice == nil {
		metrics.IncNullField("new_price")
	}
	if p.Rating == nil {
		metrics.IncNullField("review_rating_number")
	}
	if p.ReviewCount == nil {
		metrics.IncNullField("review_amount")
	}
}
