// Package crawl defines the core types for the catalog crawl pipeline and
// the orchestrator that drives fetch, extract and normalize until the
// pagination controller signals termination.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Page is one fetched search-results page.
type Page struct {
	// URL is the final URL after any redirects; next-page links resolve
	// against it.
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Fetcher retrieves a single page. Implementations must honor context
// cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Config holds the settings for one crawl run. This struct is decoupled from
// Viper so the orchestrator stays testable without a config file.
type Config struct {
	StartURL      string
	AllowedDomain string
	MaxPages      int
}

// Validate rejects configurations that would fail mid-run. A bad start URL
// or domain is a startup error, caught before any page is fetched.
func (c Config) Validate() error {
	if c.StartURL == "" {
		return fmt.Errorf("start URL must be set")
	}
	u, err := url.Parse(c.StartURL)
	if err != nil {
		return fmt.Errorf("parse start URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("start URL %q must be http or https", c.StartURL)
	}
	if c.AllowedDomain == "" {
		return fmt.Errorf("allowed domain must be set")
	}
	if !hostAllowed(u.Hostname(), c.AllowedDomain) {
		return fmt.Errorf("start URL host %q is outside allowed domain %q", u.Hostname(), c.AllowedDomain)
	}
	return nil
}

// hostAllowed matches a hostname (no port) against the configured domain,
// accepting subdomains.
func hostAllowed(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
