package geo

import (
	"sort"
	"testing"
)

func sorted(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}

func equalSets(a, b []string) bool {
	a, b = sorted(a), sorted(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInferFromName_GlobalShortCircuit(t *testing.T) {
	for _, name := range []string{
		"ACME Global",
		"Shoes International",
		"Worldwide Gadgets UK", // the UK hint must not survive the short-circuit
	} {
		got := InferFromName(name)
		if len(got) != 1 || got[0] != GlobalSentinel {
			t.Fatalf("InferFromName(%q) = %v, want [%s]", name, got, GlobalSentinel)
		}
	}
}

func TestInferFromName_Empty(t *testing.T) {
	if got := InferFromName("   "); got != nil {
		t.Fatalf("blank name should infer nothing, got %v", got)
	}
}

func TestInferFromName_RegionHint(t *testing.T) {
	got := InferFromName("Fashion Outlet EU")
	if !equalSets(got, EU27) {
		t.Fatalf("EU hint should expand to the EU members, got %v", got)
	}
}

func TestInferFromName_ShortForms(t *testing.T) {
	cases := map[string][]string{
		"Brand UK":     {"GB"},
		"Souq UAE":     {"AE"},
		"Mobily KSA":   {"SA"},
		"Deals USA":    {"US"},
		"Maple Canada": {"CA"},
		"Viva Mexico":  {"MX"},
	}
	for name, want := range cases {
		if got := InferFromName(name); !equalSets(got, want) {
			t.Fatalf("InferFromName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestInferFromName_TwoLetterRuns(t *testing.T) {
	got := InferFromName("Outdoor Gear DE & AT")
	if !equalSets(got, []string{"DE", "AT"}) {
		t.Fatalf("got %v, want [DE AT]", got)
	}
}

func TestInferFromName_IgnoresEmbeddedPairs(t *testing.T) {
	// "IT" inside "FITNESS" must not read as Italy.
	got := InferFromName("Fitness Gear")
	if len(got) != 0 {
		t.Fatalf("got %v, want nothing", got)
	}
}

func TestInferFromName_FullCountryWord(t *testing.T) {
	got := InferFromName("Wines from France")
	if !equalSets(got, []string{"FR"}) {
		t.Fatalf("got %v, want [FR]", got)
	}
}

func TestInferFromName_HostInName(t *testing.T) {
	got := InferFromName("footshop.gr")
	if !equalSets(got, []string{"GR"}) {
		t.Fatalf("got %v, want [GR]", got)
	}
}

func TestInferFromDomain(t *testing.T) {
	cases := map[string][]string{
		"shop.example.co.uk": {"GB"},
		"store.com.au":       {"AU"},
		"footshop.gr":        {"GR"},
		"brand.de":           {"DE"},
		"plain.com":          nil,
		"no host here":       nil,
		"":                   nil,
	}
	for in, want := range cases {
		if got := InferFromDomain(in); !equalSets(got, want) {
			t.Fatalf("InferFromDomain(%q) = %v, want %v", in, got, want)
		}
	}
}
