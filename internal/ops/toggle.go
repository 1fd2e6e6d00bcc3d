package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
)

// ToggleBookmarkInput contains parameters for the ToggleBookmark operation.
type ToggleBookmarkInput struct {
	ID string
}

// ToggleBookmarkOutput contains the result of the ToggleBookmark operation.
type ToggleBookmarkOutput struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
}

// ToggleBookmark flips a memo's bookmark flag.
func ToggleBookmark(ctx context.Context, database *sql.DB, input ToggleBookmarkInput) (*ToggleBookmarkOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	m, err := db.GetByID(ctx, database, id, false)
	if err != nil {
		return nil, err
	}

	bookmarked := !m.Bookmarked
	if err := db.SetBookmarked(ctx, database, id, bookmarked); err != nil {
		return nil, err
	}

	return &ToggleBookmarkOutput{ID: id, Bookmarked: bookmarked}, nil
}

// ToggleChecklistInput contains parameters for the ToggleChecklistItem operation.
type ToggleChecklistInput struct {
	ID     string // memo ID
	ItemID string // checklist item ID
}

// ToggleChecklistOutput contains the result of the ToggleChecklistItem operation.
type ToggleChecklistOutput struct {
	ID      string `json:"id"`
	ItemID  string `json:"item_id"`
	Checked bool   `json:"checked"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
}

// ToggleChecklistItem flips one checklist item's checked state.
func ToggleChecklistItem(ctx context.Context, database *sql.DB, input ToggleChecklistInput) (*ToggleChecklistOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}
	itemID := strings.TrimSpace(input.ItemID)
	if itemID == "" {
		return nil, errors.NewInvalidRequest("item_id is required")
	}

	m, err := db.GetByID(ctx, database, id, false)
	if err != nil {
		return nil, err
	}

	idx := m.ChecklistItemByID(itemID)
	if idx < 0 {
		return nil, errors.NewInvalidRequest("checklist item not found: " + itemID)
	}
	m.Checklist[idx].Checked = !m.Checklist[idx].Checked

	if err := db.UpdateByID(ctx, database, m); err != nil {
		return nil, err
	}

	return &ToggleChecklistOutput{
		ID:      id,
		ItemID:  itemID,
		Checked: m.Checklist[idx].Checked,
		Done:    m.ChecklistDone(),
		Total:   len(m.Checklist),
	}, nil
}
