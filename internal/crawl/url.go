package crawl

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveNext resolves a possibly-relative next-page link against the page
// it was found on and returns it in normalized form: lowercased scheme and
// host, default ports removed, fragment dropped, query parameters sorted.
func ResolveNext(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse next link: %w", err)
	}
	u := base.ResolveReference(ref)

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""

	// Sorting the query keeps revisit detection stable.
	q := u.Query()
	u.RawQuery = q.Encode()

	return u.String(), nil
}
