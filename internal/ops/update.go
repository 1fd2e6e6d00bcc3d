package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID string // required

	// Editable fields (nil = don't change)
	Title      *string
	Content    *string
	FolderID   *string
	Date       *string // YYYY-MM-DD; keeps the stored time-of-day
	Checklist  *[]ChecklistInput
	Links      *[]LinkInput
	Images     *[]string
	Bookmarked *bool
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID        string `json:"id"`
	UpdatedAt int64  `json:"updated_at"`
}

// Update modifies an existing memo. List fields replace the stored lists.
func Update(ctx context.Context, database *sql.DB, cfg *config.Config, input UpdateInput) (*UpdateOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	// Validate at least one editable field is provided
	if input.Title == nil && input.Content == nil && input.FolderID == nil && input.Date == nil &&
		input.Checklist == nil && input.Links == nil && input.Images == nil && input.Bookmarked == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	// Fetch existing memo (active only)
	m, err := db.GetByID(ctx, database, id, false)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewInvalidRequest("title must not be empty")
		}
		m.Title = title
	}

	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if err := checkContent(content, cfg.MemoMaxChars); err != nil {
			return nil, err
		}
		m.Content = content
		m.ContentChars = memo.CountChars(content)
	}

	if input.FolderID != nil {
		if m.FolderID, err = resolveFolder(ctx, database, *input.FolderID); err != nil {
			return nil, err
		}
	}

	if input.Date != nil && strings.TrimSpace(*input.Date) != "" {
		if m.CreatedAt, err = parseDate(*input.Date, time.Unix(m.CreatedAt, 0)); err != nil {
			return nil, err
		}
	}

	if input.Checklist != nil {
		if m.Checklist, err = buildChecklist(*input.Checklist); err != nil {
			return nil, err
		}
	}

	if input.Links != nil {
		if m.Links, err = buildLinks(*input.Links); err != nil {
			return nil, err
		}
	}

	if input.Images != nil {
		if m.Images, err = buildImages(*input.Images); err != nil {
			return nil, err
		}
	}

	if input.Bookmarked != nil {
		m.Bookmarked = *input.Bookmarked
	}

	// Persist update
	if err := db.UpdateByID(ctx, database, m); err != nil {
		return nil, err
	}

	return &UpdateOutput{
		ID:        m.ID,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
