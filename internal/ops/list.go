package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	FolderID       string // default: "default", which lists every folder
	BookmarkedOnly bool
	Month          string // optional YYYY-MM
	Limit          int    // default: 20, max: 100
	Offset         int    // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []memo.MemoSummary `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"`
}

// List retrieves memo summaries with pagination.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	filters, err := buildFilters(input.FolderID, input.BookmarkedOnly, input.Month)
	if err != nil {
		return nil, err
	}

	page := newPagination(input.Limit, input.Offset)

	summaries, total, err := db.List(ctx, database, filters, page.Limit, page.Offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if summaries == nil {
		summaries = []memo.MemoSummary{}
	}

	return &ListOutput{
		Items:      summaries,
		Pagination: page.finish(len(summaries), total),
		Sort:       "created_at_desc",
	}, nil
}

// buildFilters validates the shared list/search filters. month is "YYYY-MM".
func buildFilters(folderID string, bookmarkedOnly bool, month string) (db.ListFilters, error) {
	filters := db.ListFilters{
		FolderID:       strings.TrimSpace(folderID),
		BookmarkedOnly: bookmarkedOnly,
	}

	month = strings.TrimSpace(month)
	if month != "" {
		start, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return filters, errors.NewInvalidRequest("month must be YYYY-MM")
		}
		filters.CreatedFrom = start.Unix()
		filters.CreatedTo = start.AddDate(0, 1, 0).Unix()
	}

	return filters, nil
}
