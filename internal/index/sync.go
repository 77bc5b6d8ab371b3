package index

import (
	"context"
	"fmt"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// Sync brings the index up to date with articles in one transaction:
//   - new or changed articles (by checksum) are upserted
//   - indexed slugs no longer present are deleted
func (db *DB) Sync(ctx context.Context, articles []models.Article) (SyncStats, error) {
	var stats SyncStats

	checksums, err := db.AllChecksums(ctx)
	if err != nil {
		return stats, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	present := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		present[a.Slug] = struct{}{}
		if cs, ok := checksums[a.Slug]; ok && cs == a.Checksum {
			stats.Unchanged++
			continue
		}
		if err := db.upsert(ctx, tx, a); err != nil {
			return SyncStats{}, err
		}
		stats.Upserted++
	}

	for slug := range checksums {
		if _, ok := present[slug]; ok {
			continue
		}
		if err := db.delete(ctx, tx, slug); err != nil {
			return SyncStats{}, err
		}
		stats.Deleted++
	}

	if err := tx.Commit(); err != nil {
		return SyncStats{}, fmt.Errorf("index: commit sync: %w", err)
	}
	return stats, nil
}
