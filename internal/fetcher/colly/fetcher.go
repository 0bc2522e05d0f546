// Package collyfetcher implements crawl.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/mercalytics/catalog-crawler/internal/crawl"
	"github.com/mercalytics/catalog-crawler/internal/ratelimit"
)

// Config controls collector behavior.
type Config struct {
	UserAgent         string
	AllowedDomains    []string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Fetcher fetches one page at a time through a Colly collector. The crawl
// loop is sequential, so the collector runs synchronously.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	limiter       *ratelimit.Limiter
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	opts := []colly.CollectorOption{colly.Async(false)}
	if len(cfg.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(cfg.AllowedDomains...))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.UserAgent))
	}
	c := colly.NewCollector(opts...)
	c.WithTransport(newHTTPTransport())
	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		limiter:       ratelimit.New(cfg.RequestsPerSecond, 1),
	}
}

// Fetch executes a single HTTP GET using Colly, after waiting out the
// politeness limiter.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (crawl.Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return crawl.Page{}, err
	}

	var (
		result   crawl.Page
		fetchErr error
	)
	start := time.Now()

	collector := f.baseCollector.Clone()
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	collector.OnResponse(func(r *colly.Response) {
		result = crawl.Page{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := f.runCollector(ctx, collector, rawURL, &fetchErr); err != nil {
		return crawl.Page{}, err
	}
	return result, nil
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
