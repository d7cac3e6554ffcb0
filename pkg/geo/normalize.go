package geo

import (
	"sort"
	"strings"
)

// NormalizeCountryList converts a mixed bag of raw tokens, alpha-2 codes and
// full country names into sorted, unique canonical display names. Entries
// containing embedded comma/semicolon lists are exploded and reprocessed via
// an explicit work queue. Region markers (EU, EEA) are skipped here: the
// orchestrator expands them to individual codes before this point. Tokens
// resolving to nothing are dropped silently; unrecognized geographic noise
// is expected input, not an error.
func NormalizeCountryList(mixed []string) []string {
	queue := make([]string, len(mixed))
	copy(queue, mixed)

	names := make(map[string]struct{})

	for len(queue) > 0 {
		raw := queue[0]
		queue = queue[1:]

		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}

		if strings.ContainsAny(s, ",;") {
			for _, piece := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
				queue = append(queue, piece)
			}
			continue
		}

		if r, ok := ResolveAlias(s); ok && r.Kind == ResolvedRegion {
			continue
		}

		if code, ok := NormalizeToken(s); ok {
			if name := CodeToName(code); name != "" {
				names[name] = struct{}{}
			}
			continue
		}

		if code := NameToCode(s); code != "" {
			if name := CodeToName(code); name != "" {
				names[name] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
