package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/jot/internal/errors"
)

// MaxRecentSearches is how many recent search queries are kept.
const MaxRecentSearches = 10

// RecentSearch is a remembered search query.
type RecentSearch struct {
	Query      string `json:"query"`
	SearchedAt int64  `json:"searched_at"`
}

// AddRecentSearch records query as the most recent search. A repeated query
// moves to the front; entries beyond MaxRecentSearches are dropped.
func AddRecentSearch(ctx context.Context, db *sql.DB, query string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recent_searches WHERE query = ?`, query); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO recent_searches (query, searched_at) VALUES (?, ?)`,
		query, time.Now().Unix(),
	); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM recent_searches
		WHERE seq NOT IN (SELECT seq FROM recent_searches ORDER BY seq DESC LIMIT ?)
	`, MaxRecentSearches); err != nil {
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListRecentSearches returns recent searches, most recent first.
func ListRecentSearches(ctx context.Context, db *sql.DB) ([]RecentSearch, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT query, searched_at FROM recent_searches ORDER BY seq DESC LIMIT ?`,
		MaxRecentSearches,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []RecentSearch
	for rows.Next() {
		var r RecentSearch
		if err := rows.Scan(&r.Query, &r.SearchedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// RemoveRecentSearch deletes one query. Returns false if it was not present.
func RemoveRecentSearch(ctx context.Context, db *sql.DB, query string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM recent_searches WHERE query = ?`, query)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// ClearRecentSearches deletes every recent search and returns how many were removed.
func ClearRecentSearches(ctx context.Context, db *sql.DB) (int, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM recent_searches`)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}
