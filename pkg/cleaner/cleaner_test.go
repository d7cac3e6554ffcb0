package cleaner

import (
	"reflect"
	"testing"
)

func TestCleanDocumentGeo_GlobalBeatsExplicitGeo(t *testing.T) {
	doc := []byte(`{"advertiserName":"ACME Worldwide","targetedCountries":["DE","FR"]}`)
	got := CleanDocumentGeo(doc)
	if !reflect.DeepEqual(got.Countries, []string{"Global"}) {
		t.Fatalf("got %v, want [Global]", got.Countries)
	}
	if got.Notes != NoteGlobal {
		t.Fatalf("notes = %q, want %q", got.Notes, NoteGlobal)
	}
}

func TestCleanDocumentGeo_FallbackToUSCanada(t *testing.T) {
	got := CleanDocumentGeo([]byte(`{"advertiserName":"Mysterious Brand"}`))
	want := []string{"Canada", "United States"}
	if !reflect.DeepEqual(got.Countries, want) {
		t.Fatalf("got %v, want %v", got.Countries, want)
	}
	if got.Notes != NoteDefaulted {
		t.Fatalf("notes = %q, want %q", got.Notes, NoteDefaulted)
	}
}

func TestCleanDocumentGeo_AliasTokens(t *testing.T) {
	doc := []byte(`{"targetedCountries":["UK","U.S.","UAE"]}`)
	got := CleanDocumentGeo(doc)
	want := []string{"United Arab Emirates", "United Kingdom", "United States"}
	if !reflect.DeepEqual(got.Countries, want) {
		t.Fatalf("got %v, want %v", got.Countries, want)
	}
	if got.Notes != NoteDerived {
		t.Fatalf("notes = %q, want %q", got.Notes, NoteDerived)
	}
}

func TestCleanDocumentGeo_EURegionExpansion(t *testing.T) {
	got := CleanDocumentGeo([]byte(`{"countries":["EU"]}`))
	if len(got.Countries) != 27 {
		t.Fatalf("expected 27 EU countries, got %d: %v", len(got.Countries), got.Countries)
	}
	for _, name := range got.Countries {
		if name == "United Kingdom" {
			t.Fatal("EU expansion must not include the United Kingdom")
		}
	}
}

func TestCleanDocumentGeo_DACHExpansion(t *testing.T) {
	got := CleanDocumentGeo([]byte(`{"countries":["DACH"]}`))
	want := []string{"Austria", "Germany", "Switzerland"}
	if !reflect.DeepEqual(got.Countries, want) {
		t.Fatalf("got %v, want %v", got.Countries, want)
	}
}

func TestCleanDocumentGeo_DACHFromName(t *testing.T) {
	doc := []byte(`{"advertiserName":"Acme DACH Deals","targetedCountries":[]}`)
	got := CleanDocumentGeo(doc)
	want := []string{"Austria", "Germany", "Switzerland"}
	if !reflect.DeepEqual(got.Countries, want) {
		t.Fatalf("got %v, want %v", got.Countries, want)
	}
	if got.Notes != NoteDerived {
		t.Fatalf("notes = %q, want %q", got.Notes, NoteDerived)
	}
}

func TestCleanDocumentGeo_EmbeddedListString(t *testing.T) {
	got := CleanDocumentGeo([]byte(`{"country":"US, CA; MX"}`))
	want := []string{"Canada", "Mexico", "United States"}
	if !reflect.DeepEqual(got.Countries, want) {
		t.Fatalf("got %v, want %v", got.Countries, want)
	}
}

func TestCleanDocumentGeo_FirstPresentGeoKeyWins(t *testing.T) {
	// targetedCountries is present but empty; lower-priority keys are never
	// consulted, so the result falls back.
	doc := []byte(`{"targetedCountries":[],"countries":["DE"],"advertiserName":"Plain Brand"}`)
	got := CleanDocumentGeo(doc)
	want := []string{"Canada", "United States"}
	if !reflect.DeepEqual(got.Countries, want) {
		t.Fatalf("got %v, want %v", got.Countries, want)
	}
	if got.Notes != NoteDefaulted {
		t.Fatalf("notes = %q, want %q", got.Notes, NoteDefaulted)
	}
}

func TestCleanDocumentGeo_NamePriority(t *testing.T) {
	// advertiserName outranks name.
	doc := []byte(`{"advertiserName":"Brand France","name":"Brand Worldwide"}`)
	got := CleanDocumentGeo(doc)
	if !reflect.DeepEqual(got.Countries, []string{"France"}) {
		t.Fatalf("got %v, want [France]", got.Countries)
	}
}

func TestCleanDocumentGeo_NameInferenceMergesWithGeo(t *testing.T) {
	doc := []byte(`{"advertiserName":"Shoes UK","targetedCountries":["DE"]}`)
	got := CleanDocumentGeo(doc)
	want := []string{"Germany", "United Kingdom"}
	if !reflect.DeepEqual(got.Countries, want) {
		t.Fatalf("got %v, want %v", got.Countries, want)
	}
}

func TestCleanDocumentGeo_Kosovo(t *testing.T) {
	got := CleanDocumentGeo([]byte(`{"countries":["XK"]}`))
	if !reflect.DeepEqual(got.Countries, []string{"Kosovo"}) {
		t.Fatalf("got %v, want [Kosovo]", got.Countries)
	}
}

func TestCleanDocumentGeo_Idempotent(t *testing.T) {
	first := CleanDocumentGeo([]byte(`{"advertiserName":"Gear DE & AT","countries":["EU"]}`))
	// Re-clean a document carrying the already-clean list.
	redoc := []byte(`{"targetedCountries":["` + first.Countries[0] + `","` + first.Countries[1] + `"]}`)
	second := CleanDocumentGeo(redoc)
	if !reflect.DeepEqual(second.Countries[:2], first.Countries[:2]) {
		t.Fatalf("not stable: %v then %v", first.Countries[:2], second.Countries[:2])
	}
}

func TestCleanDocumentGeo_EmptyDocument(t *testing.T) {
	got := CleanDocumentGeo([]byte(`{}`))
	want := []string{"Canada", "United States"}
	if !reflect.DeepEqual(got.Countries, want) {
		t.Fatalf("got %v, want %v", got.Countries, want)
	}
}
