package geo

import (
	"regexp"
	"strings"
)

// GlobalSentinel is returned as the sole token when a name signals worldwide
// targeting. It short-circuits all other inference.
const GlobalSentinel = "GLOBAL"

var globalRe = regexp.MustCompile(`\b(GLOBAL|WORLDWIDE|INTERNATIONAL)\b`)

// regionHints are scanned against the uppercased name; every matching hint
// contributes its full member set.
var regionHints = []struct {
	re      *regexp.Regexp
	members []string
}{
	{regexp.MustCompile(`\bEMEA\b`), EMEA},
	{regexp.MustCompile(`\bEUROPE(AN)?\b`), EuropeWide},
	{regexp.MustCompile(`\bEU\b`), EU27},
	{regexp.MustCompile(`\b(LATAM|LATIN AMERICA)\b`), LATAM},
	{regexp.MustCompile(`\bAPAC\b`), APAC},
	{regexp.MustCompile(`\bMENA\b`), MENA},
	{regexp.MustCompile(`\bDACH\b`), DACH},
	{regexp.MustCompile(`\bBENELUX\b`), BENELUX},
	{regexp.MustCompile(`\bNORDICS?\b`), Nordics},
	{regexp.MustCompile(`\bANZ\b`), ANZ},
	{regexp.MustCompile(`\bGCC\b`), GCC},
	{regexp.MustCompile(`\bIBERIA(N)?\b`), Iberia},
	{regexp.MustCompile(`\bCEE\b`), CEE},
	{regexp.MustCompile(`\b(S(OUTH)?\s?E(AST)?\s?ASIA|SEA)\b`), SEA},
	{regexp.MustCompile(`\b(N(ORTH)?\s?AMERICA(N|S)?|NAMER|NA)\b`), NorthAmerica},
	{regexp.MustCompile(`\bAMERICAS?\b`), Americas},
}

// shortFormHints catch common national abbreviations that are not plain
// alpha-2 codes.
var shortFormHints = []struct {
	re   *regexp.Regexp
	code string
}{
	{regexp.MustCompile(`\bUK\b`), "GB"},
	{regexp.MustCompile(`\bUAE\b`), "AE"},
	{regexp.MustCompile(`\bKSA\b`), "SA"},
	{regexp.MustCompile(`\bUS(A)?\b`), "US"},
	{regexp.MustCompile(`\b(CANADA|CA)\b`), "CA"},
	{regexp.MustCompile(`\b(MEXICO|MX)\b`), "MX"},
	{regexp.MustCompile(`\b(UK|GB)\b`), "GB"},
	{regexp.MustCompile(`\b(IE|IRELAND)\b`), "IE"},
}

var (
	letterRunRe = regexp.MustCompile(`[A-Z]+`)
	wordSplitRe = regexp.MustCompile(`[\s&/|,;:\-_.]+`)
	hostRe      = regexp.MustCompile(`(?i)([a-z0-9-]+\.)+[a-z.]{2,}`)
)

// nameStopWords are skipped during the full-country-name word scan, either
// because they are filler or because they were already handled as regions.
var nameStopWords = map[string]struct{}{
	"THE": {}, "AND": {}, "OF": {}, "SHOP": {}, "STORE": {}, "ONLINE": {},
	"EUROPE": {}, "LATAM": {}, "APAC": {}, "EMEA": {}, "MENA": {}, "GLOBAL": {},
}

// InferFromName mines an advertiser/program name for geographic hints and
// returns the deduplicated alpha-2 codes found, or the single GlobalSentinel
// when the name declares worldwide targeting. This is best-effort text
// mining; false positives on brand names are an accepted trade-off and the
// caller records that inference was used.
func InferFromName(name string) []string {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	up := strings.ToUpper(name)
	if globalRe.MatchString(up) {
		return []string{GlobalSentinel}
	}

	out := newCodeSet()

	for _, h := range regionHints {
		if h.re.MatchString(up) {
			out.addAll(h.members)
		}
	}
	for _, h := range shortFormHints {
		if h.re.MatchString(up) {
			out.add(h.code)
		}
	}

	// Standalone two-letter tokens like "DE & AT": maximal letter runs of
	// exactly length two, i.e. not adjacent to other letters.
	for _, run := range letterRunRe.FindAllString(up, -1) {
		if len(run) != 2 {
			continue
		}
		if code, ok := NormalizeToken(run); ok {
			out.add(code)
		}
	}

	// Full country names appearing as single words.
	for _, w := range wordSplitRe.Split(up, -1) {
		if w == "" {
			continue
		}
		if _, stop := nameStopWords[w]; stop {
			continue
		}
		if r, ok := ResolveAlias(w); ok && r.Kind == ResolvedCountry {
			out.add(r.Code)
			continue
		}
		if code := NameToCode(w); code != "" {
			out.add(code)
		}
	}

	out.addAll(InferFromDomain(name))

	return out.slice()
}

// ccTLD overrides for labels that are not themselves ISO codes.
var ccTLDMap = map[string]string{"uk": "GB", "au": "AU"}

var genericTLDs = map[string]struct{}{"co": {}, "com": {}, "net": {}, "org": {}}

// InferFromDomain extracts host-like substrings ("footshop.gr",
// "shop.example.co.uk") and maps their ccTLDs to alpha-2 codes. Generic TLDs
// carry no signal unless a uk/au second-level label precedes them.
func InferFromDomain(nameOrHost string) []string {
	if nameOrHost == "" {
		return nil
	}

	out := newCodeSet()
	for _, host := range hostRe.FindAllString(nameOrHost, -1) {
		parts := strings.Split(strings.Trim(strings.ToLower(host), "."), ".")
		if len(parts) < 2 {
			continue
		}
		last := parts[len(parts)-1]
		secondLast := parts[len(parts)-2]

		if code, ok := ccTLDMap[last]; ok {
			out.add(code)
			continue
		}
		if len(last) == 2 {
			code := strings.ToUpper(last)
			if IsKnownCode(code) {
				out.add(code)
			}
			continue
		}
		if _, generic := genericTLDs[last]; generic {
			if code, ok := ccTLDMap[secondLast]; ok {
				out.add(code)
			}
		}
	}
	return out.slice()
}

// codeSet is an insertion-ordered string set.
type codeSet struct {
	seen  map[string]struct{}
	order []string
}

func newCodeSet() *codeSet {
	return &codeSet{seen: make(map[string]struct{})}
}

func (s *codeSet) add(code string) {
	if _, ok := s.seen[code]; ok {
		return
	}
	s.seen[code] = struct{}{}
	s.order = append(s.order, code)
}

func (s *codeSet) addAll(codes []string) {
	for _, c := range codes {
		s.add(c)
	}
}

func (s *codeSet) slice() []string { return s.order }
