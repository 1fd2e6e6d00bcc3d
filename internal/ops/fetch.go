package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/memo"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	memo.Memo            // embedded (copy, not pointer)
	FolderName    string `json:"folder_name"`
	ChecklistDone int    `json:"checklist_done"`
}

// Fetch retrieves a memo by ID.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	m, err := db.GetByID(ctx, database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	output := &FetchOutput{
		Memo:          *m,
		ChecklistDone: m.ChecklistDone(),
	}

	// A missing folder leaves FolderName empty
	if f, err := db.GetFolder(ctx, database, m.FolderID); err == nil {
		output.FolderName = f.Name
	}

	return output, nil
}
