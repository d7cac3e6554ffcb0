// Package geo holds the static country/region reference data and the text
// heuristics used to turn noisy affiliate-network geo signals into canonical
// country names.
package geo

import "strings"

var nameToCode map[string]string

func init() {
	nameToCode = make(map[string]string, len(isoNames)+len(altNames))
	for code, name := range isoNames {
		nameToCode[strings.ToLower(name)] = code
	}
	for name, code := range altNames {
		nameToCode[name] = code
	}
}

// CodeToName resolves an alpha-2 code to its English display name. Kosovo
// (XK) is not in the ISO table and is special-cased. Returns "" for unknown
// codes; absence of a match is a normal outcome, not an error.
func CodeToName(alpha2 string) string {
	code := strings.ToUpper(strings.TrimSpace(alpha2))
	if code == "XK" {
		return "Kosovo"
	}
	return isoNames[code]
}

// NameToCode resolves a full country name (any casing, collapsed spacing)
// to its alpha-2 code. Returns "" when the name is unknown.
func NameToCode(name string) string {
	key := strings.ToLower(collapseSpaces(name))
	return nameToCode[key]
}

// IsKnownCode reports whether the code resolves to a display name.
func IsKnownCode(alpha2 string) bool {
	return CodeToName(alpha2) != ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
