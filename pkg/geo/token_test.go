package geo

import "testing"

func TestResolveAlias_CountryAliases(t *testing.T) {
	cases := map[string]string{
		"UK":   "GB",
		"U.K.": "GB",
		"ENG":  "GB",
		"UAE":  "AE",
		"KSA":  "SA",
		"USA":  "US",
		"U.S.": "US",
		"us":   "US",
		" ca ": "CA",
	}
	for in, want := range cases {
		r, ok := ResolveAlias(in)
		if !ok {
			t.Fatalf("ResolveAlias(%q): expected a hit", in)
		}
		if r.Kind != ResolvedCountry || r.Code != want {
			t.Fatalf("ResolveAlias(%q) = %+v, want country %s", in, r, want)
		}
	}
}

func TestResolveAlias_RegionMarkers(t *testing.T) {
	for _, in := range []string{"EU", "eu", "EEA"} {
		r, ok := ResolveAlias(in)
		if !ok {
			t.Fatalf("ResolveAlias(%q): expected a hit", in)
		}
		if r.Kind != ResolvedRegion {
			t.Fatalf("ResolveAlias(%q) = %+v, want a region marker", in, r)
		}
	}
}

func TestResolveAlias_Miss(t *testing.T) {
	if _, ok := ResolveAlias("ATLANTIS"); ok {
		t.Fatal("ResolveAlias(ATLANTIS): expected a miss")
	}
}

func TestNormalizeToken_ValidCodes(t *testing.T) {
	cases := map[string]string{
		"DE":  "DE",
		"fr":  "FR",
		" jp": "JP",
		"UK":  "GB",
		"USA": "US",
	}
	for in, want := range cases {
		got, ok := NormalizeToken(in)
		if !ok || got != want {
			t.Fatalf("NormalizeToken(%q) = (%q, %v), want (%q, true)", in, got, ok, want)
		}
	}
}

func TestNormalizeToken_Rejects(t *testing.T) {
	for _, in := range []string{"", "  ", "ZZ", "EU", "EEA", "GER", "1A", "Germany"} {
		if got, ok := NormalizeToken(in); ok {
			t.Fatalf("NormalizeToken(%q) = (%q, true), want a miss", in, got)
		}
	}
}
