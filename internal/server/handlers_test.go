package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shopiggo/geoclean/pkg/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, "promos", "", ""), db
}

func doClean(t *testing.T, s *Server, query string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/clean?"+query, nil)
	rec := httptest.NewRecorder()
	s.handleClean(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, body
}

func TestHandleClean_SingleNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec, body := doClean(t, s, "id=missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["error"] != "Doc not found" || body["id"] != "missing" {
		t.Fatalf("body = %v", body)
	}
}

func TestHandleClean_SingleDryRun(t *testing.T) {
	s, db := newTestServer(t)
	if err := db.PutDocument(context.Background(), "promos", "p1", []byte(`{"countries":["DE","FR"]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, body := doClean(t, s, "id=p1&dryRun=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["mode"] != "single" || body["dryRun"] != true {
		t.Fatalf("body = %v", body)
	}
	if body["wroteTo"] != nil {
		t.Fatalf("wroteTo must be null on a plain dry run, got %v", body["wroteTo"])
	}
	want := []interface{}{"France", "Germany"}
	if !reflect.DeepEqual(body["cleanTargetedCountries"], want) {
		t.Fatalf("countries = %v", body["cleanTargetedCountries"])
	}
	if body["notes"] == "" {
		t.Fatalf("notes missing: %v", body)
	}
}

func TestHandleClean_SingleLiveWrites(t *testing.T) {
	s, db := newTestServer(t)
	ctx := context.Background()
	if err := db.PutDocument(ctx, "promos", "p1", []byte(`{"countries":["DE"]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, body := doClean(t, s, "id=p1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["wroteTo"] != "promos-clean" {
		t.Fatalf("wroteTo = %v", body["wroteTo"])
	}
	if _, err := db.GetDocument(ctx, "promos-clean", "p1"); err != nil {
		t.Fatalf("cleaned doc missing: %v", err)
	}
}

func TestHandleClean_BatchResponseShape(t *testing.T) {
	s, db := newTestServer(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		if err := db.PutDocument(ctx, "promos", id, []byte(`{"countries":["DE"]}`)); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	rec, body := doClean(t, s, "dryRun=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["mode"] != "batch" {
		t.Fatalf("mode = %v", body["mode"])
	}
	if body["processed"] != float64(2) || body["written"] != float64(0) || body["skipped"] != float64(0) {
		t.Fatalf("counters: %v", body)
	}
	if body["limit"] != nil {
		t.Fatalf("limit must be null when unset, got %v", body["limit"])
	}
	if body["wroteTo"] != nil {
		t.Fatalf("wroteTo must be null on a dry run, got %v", body["wroteTo"])
	}
}

func TestHandleClean_PermissiveParams(t *testing.T) {
	s, _ := newTestServer(t)

	// Garbage numbers fall back to defaults instead of erroring; a provided
	// number below 1 clamps to 1 rather than reading as unset.
	rec, body := doClean(t, s, "batchSize=banana&limit=-3&dryRun=yes")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["batchSize"] != float64(400) {
		t.Fatalf("batchSize = %v", body["batchSize"])
	}
	if body["limit"] != float64(1) {
		t.Fatalf("limit = %v, want 1", body["limit"])
	}
	// "yes" is not "true": this counts as a live run over an empty collection.
	if body["dryRun"] != false {
		t.Fatalf("dryRun = %v", body["dryRun"])
	}
}

func TestHandleClean_ZeroLimitClampsToOne(t *testing.T) {
	s, db := newTestServer(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := db.PutDocument(ctx, "promos", id, []byte(`{"countries":["DE"]}`)); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	// limit=0 is a bounded request, not unbounded: it must clamp to 1, never
	// scan the whole collection.
	rec, body := doClean(t, s, "limit=0&dryRun=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["processed"] != float64(1) {
		t.Fatalf("processed = %v, want 1", body["processed"])
	}
	if body["limit"] != float64(1) {
		t.Fatalf("limit = %v, want 1", body["limit"])
	}
}

func TestHandleClean_ZeroBatchSizeClampsToOne(t *testing.T) {
	s, _ := newTestServer(t)
	rec, body := doClean(t, s, "batchSize=0&dryRun=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	if body["batchSize"] != float64(1) {
		t.Fatalf("batchSize = %v, want 1", body["batchSize"])
	}
}

func TestHandleClean_LimitEchoed(t *testing.T) {
	s, _ := newTestServer(t)
	rec, body := doClean(t, s, "limit=5&dryRun=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["limit"] != float64(5) {
		t.Fatalf("limit = %v", body["limit"])
	}
}

func TestHandleStats(t *testing.T) {
	s, db := newTestServer(t)
	ctx := context.Background()
	if err := db.PutDocument(ctx, "promos", "a", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/stats", nil)
	rec := httptest.NewRecorder()
	s.handleStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats []storage.CollectionStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(stats) != 1 || stats[0].Collection != "promos" || stats[0].DocumentCount != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestBasicAuth(t *testing.T) {
	s, _ := newTestServer(t)
	s.Username, s.Password = "admin", "secret"

	handler := s.basicAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/stats", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no credentials: status = %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/stats", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status = %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/stats", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("good credentials: status = %d", rec.Code)
	}
}

func TestBasicAuth_DisabledWhenUnset(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.basicAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest("GET", "/api/stats", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("auth must be disabled with empty credentials, status = %d", rec.Code)
	}
}
