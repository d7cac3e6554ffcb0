package ingest

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// rootDomain extracts the registrable domain from a program URL, e.g.
// "http://www.example.co.uk/offers" -> "example.co.uk". Returns "" when no
// domain can be derived; ingestion stores the field as absent in that case.
func rootDomain(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, ".") {
		return ""
	}

	domain, err := publicsuffix.Domain(host)
	if err != nil {
		// Unlisted or malformed suffix; fall back to the bare hostname.
		return strings.TrimPrefix(host, "www.")
	}
	return domain
}
