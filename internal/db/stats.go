package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/jot/internal/errors"
)

// Stats aggregates counts over active memos.
type Stats struct {
	TotalMemos         int `json:"total_memos"`
	MemosThisMonth     int `json:"memos_this_month"`
	BookmarkedMemos    int `json:"bookmarked_memos"`
	Folders            int `json:"folders"`
	ChecklistTotal     int `json:"checklist_total"`
	ChecklistCompleted int `json:"checklist_completed"`
	Links              int `json:"links"`
	Images             int `json:"images"`
	DeletedMemos       int `json:"deleted_memos"`
}

// GetStats computes Stats. monthStart is the Unix time of the first instant of
// the current month in the caller's timezone.
func GetStats(ctx context.Context, db *sql.DB, monthStart int64) (*Stats, error) {
	var s Stats

	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(bookmarked), 0),
			COALESCE(SUM(CASE WHEN checklist_json IS NULL THEN 0 ELSE json_array_length(checklist_json) END), 0),
			COALESCE(SUM(CASE WHEN links_json IS NULL THEN 0 ELSE json_array_length(links_json) END), 0),
			COALESCE(SUM(CASE WHEN images_json IS NULL THEN 0 ELSE json_array_length(images_json) END), 0)
		FROM memos
		WHERE deleted_at IS NULL
	`, monthStart).Scan(
		&s.TotalMemos, &s.MemosThisMonth, &s.BookmarkedMemos,
		&s.ChecklistTotal, &s.Links, &s.Images,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM memos m, json_each(m.checklist_json) item
		WHERE m.deleted_at IS NULL
		  AND m.checklist_json IS NOT NULL
		  AND json_extract(item.value, '$.checked') = 1
	`).Scan(&s.ChecklistCompleted)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders`).Scan(&s.Folders); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memos WHERE deleted_at IS NOT NULL`).Scan(&s.DeletedMemos); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &s, nil
}
