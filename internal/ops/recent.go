package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
)

// RecentSearchesOutput contains the recent search list.
type RecentSearchesOutput struct {
	Searches []db.RecentSearch `json:"searches"`
}

// RecentSearches returns up to 10 recent queries, most recent first.
func RecentSearches(ctx context.Context, database *sql.DB) (*RecentSearchesOutput, error) {
	searches, err := db.ListRecentSearches(ctx, database)
	if err != nil {
		return nil, err
	}
	if searches == nil {
		searches = []db.RecentSearch{}
	}
	return &RecentSearchesOutput{Searches: searches}, nil
}

// RemoveRecentSearchOutput contains the result of RemoveRecentSearch.
type RemoveRecentSearchOutput struct {
	Removed bool `json:"removed"`
}

// RemoveRecentSearch forgets one query.
func RemoveRecentSearch(ctx context.Context, database *sql.DB, query string) (*RemoveRecentSearchOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	removed, err := db.RemoveRecentSearch(ctx, database, query)
	if err != nil {
		return nil, err
	}
	return &RemoveRecentSearchOutput{Removed: removed}, nil
}

// ClearRecentSearchesOutput contains the result of ClearRecentSearches.
type ClearRecentSearchesOutput struct {
	Cleared int `json:"cleared"`
}

// ClearRecentSearches forgets every recent query.
func ClearRecentSearches(ctx context.Context, database *sql.DB) (*ClearRecentSearchesOutput, error) {
	n, err := db.ClearRecentSearches(ctx, database)
	if err != nil {
		return nil, err
	}
	return &ClearRecentSearchesOutput{Cleared: n}, nil
}
