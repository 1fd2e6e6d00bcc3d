package memo

import "github.com/hpungsan/jot/internal/markup"

// PreviewChars is the maximum length of MemoSummary.Preview.
const PreviewChars = 100

// MemoSummary represents a memo's metadata without the full content.
// Used for browse operations (list, search) to reduce data transfer.
type MemoSummary struct {
	// ID is a ULID that uniquely identifies this memo
	ID string `json:"id"`

	Title    string `json:"title"`
	FolderID string `json:"folder_id"`

	// Preview is the start of the content with markup delimiters removed
	Preview string `json:"preview"`

	// ContentChars is the character count (runes, not bytes)
	ContentChars int `json:"content_chars"`

	Bookmarked     bool `json:"bookmarked"`
	ChecklistTotal int  `json:"checklist_total"`
	ChecklistDone  int  `json:"checklist_done"`
	LinkCount      int  `json:"link_count"`
	ImageCount     int  `json:"image_count"`

	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ToSummary converts a Memo to a MemoSummary by stripping the content.
func (m *Memo) ToSummary() MemoSummary {
	return MemoSummary{
		ID:             m.ID,
		Title:          m.Title,
		FolderID:       m.FolderID,
		Preview:        Preview(m.Content),
		ContentChars:   m.ContentChars,
		Bookmarked:     m.Bookmarked,
		ChecklistTotal: len(m.Checklist),
		ChecklistDone:  m.ChecklistDone(),
		LinkCount:      len(m.Links),
		ImageCount:     len(m.Images),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      m.DeletedAt,
	}
}

// Preview returns the first PreviewChars characters of content as plain
// text on a single line, with "..." appended when truncated.
func Preview(content string) string {
	text := CollapseWhitespace(markup.Strip(content))
	if CountChars(text) <= PreviewChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewChars]) + "..."
}
