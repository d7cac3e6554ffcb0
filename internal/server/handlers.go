package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopiggo/geoclean/pkg/runner"
	"github.com/shopiggo/geoclean/pkg/storage"
)

type singleResponse struct {
	Mode                   string   `json:"mode"`
	ID                     string   `json:"id"`
	DryRun                 bool     `json:"dryRun"`
	Preview                bool     `json:"preview"`
	WroteTo                *string  `json:"wroteTo"`
	CleanTargetedCountries []string `json:"cleanTargetedCountries"`
	Notes                  string   `json:"notes"`
}

type batchResponse struct {
	Mode      string  `json:"mode"`
	DryRun    bool    `json:"dryRun"`
	Preview   bool    `json:"preview"`
	WroteTo   *string `json:"wroteTo"`
	BatchSize int     `json:"batchSize"`
	Limit     *int    `json:"limit"`
	Processed int     `json:"processed"`
	Written   int     `json:"written"`
	Skipped   int     `json:"skipped"`
}

// handleClean is the maintenance endpoint. Parameters are coerced
// permissively: non-numeric numbers fall back to their defaults and nothing
// in the batch path returns a 400. Operability over strictness, on purpose;
// revisit if this surface ever leaves trusted operators.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	opts := runner.Options{
		SourceCollection: s.Source,
		BatchSize:        intParam(r, "batchSize", 0),
		Limit:            intParam(r, "limit", 0),
		DryRun:           boolParam(r, "dryRun"),
		Preview:          boolParam(r, "preview"),
		DocID:            strings.TrimSpace(r.Form.Get("id")),
	}

	if opts.DocID != "" {
		res, err := s.Runner.RunSingle(r.Context(), opts)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "Doc not found", "id": opts.DocID})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, singleResponse{
			Mode:                   "single",
			ID:                     res.ID,
			DryRun:                 res.DryRun,
			Preview:                res.Preview,
			WroteTo:                nullable(res.WroteTo),
			CleanTargetedCountries: res.Countries,
			Notes:                  res.Notes,
		})
		return
	}

	res, err := s.Runner.RunBatch(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	var limit *int
	if res.Limit > 0 {
		limit = &res.Limit
	}
	writeJSON(w, http.StatusOK, batchResponse{
		Mode:      "batch",
		DryRun:    res.DryRun,
		Preview:   res.Preview,
		WroteTo:   nullable(res.WroteTo),
		BatchSize: res.BatchSize,
		Limit:     limit,
		Processed: res.Processed,
		Written:   res.Written,
		Skipped:   res.Skipped,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DB.GetStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// intParam coerces a numeric query parameter. Absent or non-numeric values
// fall back; a provided number below 1 clamps to 1. The distinction matters
// for limit, where only an unset value means unbounded.
func intParam(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.Form.Get(name))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if n < 1 {
		return 1
	}
	return n
}

func boolParam(r *http.Request, name string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Form.Get(name)), "true")
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
