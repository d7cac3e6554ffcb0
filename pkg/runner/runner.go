// Package runner coordinates cleaning runs: single-document or full
// paginated scans, destination selection for dry-run/preview modes, and
// idempotent merge writes of the cleaned output.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopiggo/geoclean/pkg/cleaner"
	"github.com/shopiggo/geoclean/pkg/storage"
)

const (
	// DefaultSourceCollection matches the upstream link-search ingestion.
	DefaultSourceCollection = "promotions-cj-linksearch"

	cleanSuffix   = "-clean"
	previewSuffix = "-clean-preview"

	// CleaningVersion is stamped into cleaningMeta on every write.
	CleaningVersion = 2

	defaultBatchSize = 400
)

// Logger abstracts logging so callers can pass logrus or nothing at all.
type Logger interface {
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Options describes one invocation. Inputs arrive from an HTTP query string
// or CLI flags and are coerced defensively: this is an operator-facing
// maintenance surface, so malformed numbers clamp instead of erroring.
type Options struct {
	SourceCollection  string // default DefaultSourceCollection
	CleanCollection   string // default SourceCollection + "-clean"
	PreviewCollection string // default SourceCollection + "-clean-preview"

	BatchSize int  // page size, default 400, clamped to >= 1
	Limit     int  // max documents, 0 = unbounded
	DryRun    bool // true = never touch the clean collection
	Preview   bool // with DryRun: write to the preview collection instead of nowhere

	DocID string // non-empty selects single-document mode
}

func (o Options) withDefaults() Options {
	if o.SourceCollection == "" {
		o.SourceCollection = DefaultSourceCollection
	}
	if o.CleanCollection == "" {
		o.CleanCollection = o.SourceCollection + cleanSuffix
	}
	if o.PreviewCollection == "" {
		o.PreviewCollection = o.SourceCollection + previewSuffix
	}
	if o.BatchSize < 1 {
		o.BatchSize = defaultBatchSize
	}
	if o.Limit < 0 {
		o.Limit = 0
	}
	return o
}

// destination returns the collection cleaned output is written to, or
// ("", false) for a pure simulation. dryRun=false always targets the clean
// collection; dryRun=true writes to the preview collection when preview is
// set and nowhere otherwise.
func (o Options) destination() (string, bool) {
	if !o.DryRun {
		return o.CleanCollection, true
	}
	if o.Preview {
		return o.PreviewCollection, true
	}
	return "", false
}

// SingleResult reports a single-document run. WroteTo is empty when no
// destination was selected.
type SingleResult struct {
	ID        string
	DryRun    bool
	Preview   bool
	WroteTo   string
	Countries []string
	Notes     string
}

// BatchResult reports a full scan run.
type BatchResult struct {
	DryRun    bool
	Preview   bool
	WroteTo   string
	BatchSize int
	Limit     int
	Processed int
	Written   int
	Skipped   int
}

// Runner binds the document store to the cleaning pipeline.
type Runner struct {
	DB  *storage.DB
	Log Logger // optional
}

func (r *Runner) log() Logger {
	if r.Log == nil {
		return nopLogger{}
	}
	return r.Log
}

// RunSingle cleans one named document. The computed countries/notes are
// always returned, whether or not a write happened. A missing id surfaces
// storage.ErrNotFound.
func (r *Runner) RunSingle(ctx context.Context, opts Options) (*SingleResult, error) {
	opts = opts.withDefaults()
	dest, writeOut := opts.destination()

	doc, err := r.DB.GetDocument(ctx, opts.SourceCollection, opts.DocID)
	if err != nil {
		return nil, err
	}

	res := cleaner.CleanDocumentGeo(doc.Data)

	if writeOut {
		payload, err := cleanedPayload(doc.Data, res)
		if err != nil {
			return nil, err
		}
		if err := r.DB.MergeUpsert(ctx, dest, doc.ID, payload); err != nil {
			return nil, err
		}
	}

	r.log().Debugf("cleaned %s: %d countries (%s)", doc.ID, len(res.Countries), res.Notes)

	return &SingleResult{
		ID:        doc.ID,
		DryRun:    opts.DryRun,
		Preview:   opts.Preview,
		WroteTo:   dest,
		Countries: res.Countries,
		Notes:     res.Notes,
	}, nil
}

// RunBatch scans the source collection page by page and cleans every
// document. Documents whose cleaned list comes back empty are counted as
// skipped and never written; the fallback policy should make that
// impossible, but the guard stays. A store failure aborts the rest of the
// run; documents already written stay written (at-least-once, safe because
// the writes are idempotent).
func (r *Runner) RunBatch(ctx context.Context, opts Options) (*BatchResult, error) {
	opts = opts.withDefaults()
	dest, writeOut := opts.destination()

	result := &BatchResult{
		DryRun:    opts.DryRun,
		Preview:   opts.Preview,
		WroteTo:   dest,
		BatchSize: opts.BatchSize,
		Limit:     opts.Limit,
	}

	scan := storage.ScanOptions{
		Collection: opts.SourceCollection,
		BatchSize:  opts.BatchSize,
		Limit:      opts.Limit,
	}

	err := r.DB.ForEachDocument(ctx, scan, func(doc storage.Document) error {
		result.Processed++
		res := cleaner.CleanDocumentGeo(doc.Data)

		if len(res.Countries) == 0 {
			result.Skipped++
			return nil
		}

		if writeOut {
			payload, err := cleanedPayload(doc.Data, res)
			if err != nil {
				return err
			}
			if err := r.DB.MergeUpsert(ctx, dest, doc.ID, payload); err != nil {
				return err
			}
			result.Written++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log().Infof("batch clean finished: processed=%d written=%d skipped=%d wroteTo=%q",
		result.Processed, result.Written, result.Skipped, dest)

	return result, nil
}

// cleanedPayload is the merge-write body: every source field plus the
// cleaned country list and cleaning metadata.
func cleanedPayload(src []byte, res cleaner.Result) (map[string]interface{}, error) {
	payload := make(map[string]interface{})
	if err := json.Unmarshal(src, &payload); err != nil {
		return nil, fmt.Errorf("source document is not a JSON object: %w", err)
	}
	payload["cleanTargetedCountries"] = res.Countries
	payload["cleaningMeta"] = map[string]interface{}{
		"version":   CleaningVersion,
		"cleanedAt": time.Now().UTC().Format(time.RFC3339),
		"notes":     res.Notes,
	}
	return payload, nil
}
