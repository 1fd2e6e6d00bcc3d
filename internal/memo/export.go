package memo

// Export record kinds.
const (
	KindFolder = "folder"
	KindMemo   = "memo"
)

// ExportRecord represents one line of a JSONL backup.
// The header line sets JotExport; every other line carries either a folder
// or a memo, distinguished by Kind.
type ExportRecord struct {
	// Header detection field - true only for header line
	JotExport bool `json:"_jot_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	Kind string `json:"kind,omitempty"`

	// Shared fields
	ID        string `json:"id,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`

	// Folder fields
	Name     string `json:"name,omitempty"`
	Color    string `json:"color,omitempty"`
	Position int    `json:"position,omitempty"`

	// Memo fields
	Title      string          `json:"title,omitempty"`
	Content    string          `json:"content,omitempty"`
	FolderID   string          `json:"folder_id,omitempty"`
	Checklist  []ChecklistItem `json:"checklist,omitempty"`
	Links      []Link          `json:"links,omitempty"`
	Images     []Image         `json:"images,omitempty"`
	Bookmarked bool            `json:"bookmarked,omitempty"`
	UpdatedAt  int64           `json:"updated_at,omitempty"`
	DeletedAt  *int64          `json:"deleted_at,omitempty"`
}

// ToMemo converts a memo record to a Memo, recomputing derived fields.
func (r *ExportRecord) ToMemo() *Memo {
	folderID := r.FolderID
	if folderID == "" {
		folderID = FolderDefault
	}
	return &Memo{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		ContentChars: CountChars(r.Content), // Recompute
		FolderID:     folderID,
		Checklist:    r.Checklist,
		Links:        r.Links,
		Images:       r.Images,
		Bookmarked:   r.Bookmarked,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		DeletedAt:    r.DeletedAt,
	}
}

// ToFolder converts a folder record to a Folder. Built-in status is never
// taken from the file.
func (r *ExportRecord) ToFolder() *Folder {
	return &Folder{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		Position:  r.Position,
		Builtin:   IsBuiltinFolder(r.ID),
		CreatedAt: r.CreatedAt,
	}
}

// MemoToExportRecord converts a Memo to an ExportRecord for export.
func MemoToExportRecord(m *Memo) *ExportRecord {
	return &ExportRecord{
		Kind:       KindMemo,
		ID:         m.ID,
		Title:      m.Title,
		Content:    m.Content,
		FolderID:   m.FolderID,
		Checklist:  m.Checklist,
		Links:      m.Links,
		Images:     m.Images,
		Bookmarked: m.Bookmarked,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		DeletedAt:  m.DeletedAt,
	}
}

// FolderToExportRecord converts a Folder to an ExportRecord for export.
func FolderToExportRecord(f *Folder) *ExportRecord {
	return &ExportRecord{
		Kind:      KindFolder,
		ID:        f.ID,
		Name:      f.Name,
		Color:     f.Color,
		Position:  f.Position,
		CreatedAt: f.CreatedAt,
	}
}
