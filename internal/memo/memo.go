package memo

// Memo is a single note with optional checklist, links and images.
type Memo struct {
	// ID is a ULID that uniquely identifies this memo
	ID string `json:"id"`

	// Title is required on create and update (trimmed)
	Title string `json:"title"`

	// Content is the memo body; it may contain inline markup
	Content string `json:"content"`

	// ContentChars is the character count of Content (runes, not bytes)
	ContentChars int `json:"content_chars"`

	// FolderID references folders.id; "default" when unfiled
	FolderID string `json:"folder_id"`

	Checklist []ChecklistItem `json:"checklist"`
	Links     []Link          `json:"links"`
	Images    []Image         `json:"images"`

	Bookmarked bool `json:"bookmarked"`

	// CreatedAt is the Unix timestamp of the memo date (user-adjustable)
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the memo was last updated
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ChecklistItem is one to-do entry on a memo.
type ChecklistItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Link is a titled URL attached to a memo.
type Link struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Image references an image by URI.
type Image struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// ChecklistDone counts checked items.
func (m *Memo) ChecklistDone() int {
	n := 0
	for _, item := range m.Checklist {
		if item.Checked {
			n++
		}
	}
	return n
}

// ChecklistItemByID returns the index of the item with the given ID, or -1.
func (m *Memo) ChecklistItemByID(id string) int {
	for i, item := range m.Checklist {
		if item.ID == id {
			return i
		}
	}
	return -1
}
