package index

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const (
	titleLike = `title_lc LIKE ? ESCAPE '\'`
	descLike  = `description_lc LIKE ? ESCAPE '\'`
	bodyLike  = `body_lc LIKE ? ESCAPE '\'`
)

// Search performs a case-insensitive substring search against the folded
// columns, so non-ASCII text matches the same way it does in Memory. Title hits come
// first, then description hits, then body hits; ties are ordered by slug.
func (db *DB) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	q := normalizeQuery(query)
	if len(q) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	pattern := "%" + escapeLike(string(q)) + "%"

	stmt, args, err := db.sb.
		Select("slug", "module", "title", "description", "body").
		From("articles").
		Where(sq.Or{
			sq.Expr(titleLike, pattern),
			sq.Expr(descLike, pattern),
			sq.Expr(bodyLike, pattern),
		}).
		OrderByClause("CASE WHEN "+titleLike+" THEN 0 WHEN "+descLike+" THEN 1 ELSE 2 END", pattern, pattern).
		OrderBy("slug").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("index: build search: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var (
			r                 SearchResult
			description, body string
		)
		if err := rows.Scan(&r.Slug, &r.Module, &r.Title, &description, &body); err != nil {
			return nil, fmt.Errorf("index: scan search: %w", err)
		}
		r.Match, _ = classify(q, r.Title, description, body)
		r.Snippet = snippet(q, description, body)
		out = append(out, r)
	}
	return out, rows.Err()
}
