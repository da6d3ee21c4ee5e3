package search

import (
	"net/url"
	"strings"
)

// FilterByDomains keeps only results whose host matches one of the allowed
// domains, either exactly or as a subdomain. Order is preserved. An empty
// allow-list keeps everything.
func FilterByDomains(results []Result, domains []string) []Result {
	if len(domains) == 0 {
		return results
	}
	allowed := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		domain = strings.TrimPrefix(domain, "www.")
		if domain != "" {
			allowed = append(allowed, domain)
		}
	}

	filtered := make([]Result, 0, len(results))
	for _, result := range results {
		if hostMatches(result.Link, allowed) {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

func hostMatches(link string, allowed []string) bool {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return false
	}
	for _, domain := range allowed {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
