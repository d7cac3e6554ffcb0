// Package cleaner turns one raw promotion/retailer document into a
// canonical targeted-country list. CleanDocumentGeo is pure: no I/O, no
// side effects, deterministic for a given document. That makes it the unit
// test boundary for the whole pipeline.
package cleaner

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/shopiggo/geoclean/pkg/geo"
)

// Provenance notes attached to every cleaning result.
const (
	NoteGlobal    = "Global inferred from name"
	NoteDefaulted = "Defaulted to US & Canada"
	NoteDerived   = "Derived from doc + name inference"
)

// geoFieldKeys are the candidate raw geo fields, highest priority first.
// The first key present in the document wins, even when its value is empty;
// values are never merged across keys.
var geoFieldKeys = []string{
	"targetedCountries",
	"targeted_countries",
	"countries",
	"country_codes",
	"countryCodes",
	"targetCountries",
	"targetedGeo",
	"geo",
	"country",
	"country_code",
}

// nameFieldKeys are the candidate advertiser/program name fields, highest
// priority first. The first non-empty string wins.
var nameFieldKeys = []string{
	"advertiserName",
	"advertiser",
	"programName",
	"name",
	"retailerName",
	"brand",
}

// rawRegionMarkers are the bare region tokens recognized in raw geo fields.
var rawRegionMarkers = []string{
	"EU", "EMEA", "APAC", "LATAM", "LATIN AMERICA", "MENA", "EUROPE",
	"DACH", "BENELUX", "NORDICS", "ANZ", "GCC", "IBERIA", "CEE", "SEA",
}

// Result is the outcome of one cleaning pass.
type Result struct {
	Countries []string
	Notes     string
}

// CleanDocumentGeo cleans one document (raw JSON bytes). Policy, in order:
// a "Global" name signal beats everything including explicit geo fields;
// otherwise raw tokens, name-inferred codes and expanded region markers are
// unioned and normalized; an empty outcome falls back to US & Canada so the
// country list is never left empty.
func CleanDocumentGeo(doc []byte) Result {
	raw := extractRawGeo(doc)
	name := extractName(doc)

	inferred := geo.InferFromName(name)
	for _, tok := range inferred {
		if tok == geo.GlobalSentinel {
			return Result{Countries: []string{"Global"}, Notes: NoteGlobal}
		}
	}

	regionAdds := expandRawRegions(raw)

	combined := make([]string, 0, len(raw)+len(inferred)+len(regionAdds))
	combined = append(combined, raw...)
	combined = append(combined, inferred...)
	combined = append(combined, regionAdds...)

	clean := geo.NormalizeCountryList(combined)
	if len(clean) == 0 {
		return Result{
			Countries: geo.NormalizeCountryList([]string{"US", "CA"}),
			Notes:     NoteDefaulted,
		}
	}
	return Result{Countries: clean, Notes: NoteDerived}
}

// extractRawGeo returns the tokens of the first candidate geo field present
// in the document. A string value becomes a one-element list; an array value
// is taken element-wise; anything else yields no tokens.
func extractRawGeo(doc []byte) []string {
	for _, key := range geoFieldKeys {
		v := gjson.GetBytes(doc, key)
		if !v.Exists() {
			continue
		}
		switch {
		case v.IsArray():
			var out []string
			for _, el := range v.Array() {
				out = append(out, el.String())
			}
			return out
		case v.Type == gjson.String:
			return []string{v.Str}
		default:
			return nil
		}
	}
	return nil
}

// extractName returns the first non-empty candidate name field.
func extractName(doc []byte) string {
	for _, key := range nameFieldKeys {
		v := gjson.GetBytes(doc, key)
		if v.Type != gjson.String {
			continue
		}
		if s := strings.TrimSpace(v.Str); s != "" {
			return s
		}
	}
	return ""
}

// expandRawRegions expands bare region markers found in the raw geo tokens
// into their constituent codes.
func expandRawRegions(raw []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range raw {
		t := strings.ToUpper(strings.TrimSpace(v))
		for _, marker := range rawRegionMarkers {
			if t != marker {
				continue
			}
			for _, code := range geo.Expand(marker) {
				if _, ok := seen[code]; ok {
					continue
				}
				seen[code] = struct{}{}
				out = append(out, code)
			}
		}
	}
	return out
}
