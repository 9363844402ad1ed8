package tracker

import (
	"net/url"
	"strings"
)

// isWebURL reports whether rawURL is an http or https page. Internal pages
// (chrome://, about:, extension pages) never open a session.
func isWebURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

// extractDomain pulls the normalized host from a URL string: scheme and path
// stripped, one leading "www." removed. On parse failure it falls back to
// the raw string so the visit is still attributable rather than dropped.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
