package geo

import "strings"

// ResolutionKind tags what an alias resolved to, so a multi-country marker
// like "EU" can never be mistaken for an alpha-2 code by a caller that
// forgot a length check.
type ResolutionKind int

const (
	ResolvedCountry ResolutionKind = iota
	ResolvedRegion
)

// Resolution is the result of looking up a token in the special-alias table.
type Resolution struct {
	Kind   ResolutionKind
	Code   string // alpha-2, set when Kind == ResolvedCountry
	Region string // region marker, set when Kind == ResolvedRegion
}

// specialAliases maps well-known shorthand tokens to either a single country
// or a region marker.
var specialAliases = map[string]Resolution{
	"UK":   {Kind: ResolvedCountry, Code: "GB"},
	"U.K.": {Kind: ResolvedCountry, Code: "GB"},
	"GB":   {Kind: ResolvedCountry, Code: "GB"},
	"ENG":  {Kind: ResolvedCountry, Code: "GB"},
	"UAE":  {Kind: ResolvedCountry, Code: "AE"},
	"KSA":  {Kind: ResolvedCountry, Code: "SA"},
	"USA":  {Kind: ResolvedCountry, Code: "US"},
	"U.S.": {Kind: ResolvedCountry, Code: "US"},
	"US":   {Kind: ResolvedCountry, Code: "US"},
	"CA":   {Kind: ResolvedCountry, Code: "CA"},
	"EU":   {Kind: ResolvedRegion, Region: "EU"},
	"EEA":  {Kind: ResolvedRegion, Region: "EEA"},
}

// ResolveAlias looks up a raw token in the special-alias table.
func ResolveAlias(token string) (Resolution, bool) {
	r, ok := specialAliases[strings.ToUpper(strings.TrimSpace(token))]
	return r, ok
}

// NormalizeToken maps a raw geographic token to an alpha-2 code. Aliases
// resolving to a region marker are NOT collapsed to a single code here;
// callers must handle them via ResolveAlias/Expand. A two-letter token is
// accepted only when it resolves to a known display name, which keeps
// nonsense codes like "ZZ" out. Returns ("", false) for everything else.
func NormalizeToken(token string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if t == "" {
		return "", false
	}

	if r, ok := specialAliases[t]; ok {
		if r.Kind == ResolvedCountry {
			return r.Code, true
		}
		return "", false
	}

	if len(t) == 2 && isUpperAlpha(t) && IsKnownCode(t) {
		return t, true
	}
	return "", false
}

func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
