package storage

import "context"

// ScanOptions controls a paginated scan over one collection.
type ScanOptions struct {
	Collection string
	BatchSize  int // page size, clamped to >= 1
	Limit      int // max documents to visit; 0 = unbounded
}

// ForEachDocument walks a collection in ascending id order, one page at a
// time, invoking fn for every document. Only the current page is held in
// memory. The cursor lives in this call's stack; a new scan always starts
// from the beginning. Documents added behind the cursor or deleted between
// page fetches are simply not revisited: best-effort consistency, not
// snapshot isolation. An error from fn aborts the scan.
func (d *DB) ForEachDocument(ctx context.Context, opts ScanOptions, fn func(Document) error) error {
	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	cursor := ""
	visited := 0

	for {
		page, err := d.fetchPage(ctx, opts.Collection, cursor, batchSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		for _, doc := range page {
			if err := fn(doc); err != nil {
				return err
			}
			visited++
			if opts.Limit > 0 && visited >= opts.Limit {
				return nil
			}
		}

		cursor = page[len(page)-1].ID
	}
}

// fetchPage reads one id-ordered page starting after the cursor. The rows
// are fully drained before returning so callers can issue writes against the
// same connection while iterating the page.
func (d *DB) fetchPage(ctx context.Context, collection, after string, batchSize int) ([]Document, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT id, data FROM documents
		WHERE collection = ? AND id > ?
		ORDER BY id
		LIMIT ?`, collection, after, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var page []Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		page = append(page, Document{ID: id, Data: []byte(data)})
	}
	return page, rows.Err()
}
