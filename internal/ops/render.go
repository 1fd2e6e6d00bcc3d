package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/markup"
)

// RenderInput contains parameters for the Render operation.
// Exactly one of Text or MemoID must be set.
type RenderInput struct {
	Text   string
	MemoID string
}

// RenderOutput contains the styled segments of the rendered text.
type RenderOutput struct {
	Segments  []markup.Segment `json:"segments"`
	PlainText string           `json:"plain_text"`
}

// Render parses inline markup in raw text or a stored memo's content.
func Render(ctx context.Context, database *sql.DB, input RenderInput) (*RenderOutput, error) {
	memoID := strings.TrimSpace(input.MemoID)
	if input.Text != "" && memoID != "" {
		return nil, errors.NewInvalidRequest("specify either text or memo_id, not both")
	}

	text := input.Text
	if memoID != "" {
		m, err := db.GetByID(ctx, database, memoID, false)
		if err != nil {
			return nil, err
		}
		text = m.Content
	}

	segments := markup.Render(text)
	if segments == nil {
		segments = []markup.Segment{}
	}

	return &RenderOutput{
		Segments:  segments,
		PlainText: markup.PlainText(segments),
	}, nil
}
