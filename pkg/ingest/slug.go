package ingest

import (
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// slugify turns an advertiser name into a short, sortable doc-id fragment:
// "Foot Shop (EU)!" -> "foot-shop-eu".
func slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStripRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
