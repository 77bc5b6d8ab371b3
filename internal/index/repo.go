package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ankit1478/LLM-Internals/internal/models"
)

// articleColumns is the shared list of columns written by Upsert.
var articleColumns = []string{
	"slug", "module", "title", "description", "body",
	"title_lc", "description_lc", "body_lc", "checksum", "updated_at",
}

const upsertSuffix = `ON CONFLICT (slug) DO UPDATE SET
	module      = excluded.module,
	title       = excluded.title,
	description = excluded.description,
	body        = excluded.body,
	title_lc       = excluded.title_lc,
	description_lc = excluded.description_lc,
	body_lc        = excluded.body_lc,
	checksum    = excluded.checksum,
	updated_at  = excluded.updated_at`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts or replaces one article.
func (db *DB) Upsert(ctx context.Context, a models.Article) error {
	return db.upsert(ctx, db.conn, a)
}

func (db *DB) upsert(ctx context.Context, ex execer, a models.Article) error {
	query, args, err := db.sb.
		Insert("articles").
		Columns(articleColumns...).
		Values(a.Slug, a.Module, a.Title, a.Description, a.Content,
			fold(a.Title), fold(a.Description), fold(a.Content), a.Checksum, time.Now().UTC()).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("index: build upsert: %w", err)
	}
	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("index: upsert %s: %w", a.Slug, err)
	}
	return nil
}

// Delete removes one article. Deleting an unknown slug is not an error.
func (db *DB) Delete(ctx context.Context, slug string) error {
	return db.delete(ctx, db.conn, slug)
}

func (db *DB) delete(ctx context.Context, ex execer, slug string) error {
	query, args, err := db.sb.Delete("articles").Where("slug = ?", slug).ToSql()
	if err != nil {
		return fmt.Errorf("index: build delete: %w", err)
	}
	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("index: delete %s: %w", slug, err)
	}
	return nil
}

// Checksum returns the stored checksum for slug, or "" if it is not indexed.
func (db *DB) Checksum(ctx context.Context, slug string) (string, error) {
	query, args, err := db.sb.Select("checksum").From("articles").Where("slug = ?", slug).ToSql()
	if err != nil {
		return "", fmt.Errorf("index: build checksum query: %w", err)
	}
	var cs string
	err = db.conn.QueryRowContext(ctx, query, args...).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: checksum %s: %w", slug, err)
	}
	return cs, nil
}

// AllChecksums returns slug -> checksum for every indexed article.
func (db *DB) AllChecksums(ctx context.Context) (map[string]string, error) {
	query, args, err := db.sb.Select("slug", "checksum").From("articles").ToSql()
	if err != nil {
		return nil, fmt.Errorf("index: build checksums query: %w", err)
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var slug, cs string
		if err := rows.Scan(&slug, &cs); err != nil {
			return nil, fmt.Errorf("index: scan checksum: %w", err)
		}
		out[slug] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed articles.
func (db *DB) Count(ctx context.Context) (int, error) {
	query, args, err := db.sb.Select("COUNT(*)").From("articles").ToSql()
	if err != nil {
		return 0, fmt.Errorf("index: build count query: %w", err)
	}
	var n int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
