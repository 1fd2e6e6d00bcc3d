package memo

// Built-in folder IDs.
const (
	FolderDefault  = "default"
	FolderWork     = "work"
	FolderPersonal = "personal"
)

// Folder groups memos. Built-in folders cannot be deleted or renamed.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Position  int    `json:"position"`
	Builtin   bool   `json:"builtin"`
	CreatedAt int64  `json:"created_at"`
}

// FolderWithCount is a folder plus the number of active memos in it.
// For the default folder the count covers every memo.
type FolderWithCount struct {
	Folder
	MemoCount int `json:"memo_count"`
}

// DefaultFolders returns the built-in folders in display order.
func DefaultFolders() []Folder {
	return []Folder{
		{ID: FolderDefault, Name: "전체", Color: "#1B5E3C", Position: 0, Builtin: true},
		{ID: FolderWork, Name: "업무", Color: "#2563EB", Position: 1, Builtin: true},
		{ID: FolderPersonal, Name: "개인", Color: "#DC2626", Position: 2, Builtin: true},
	}
}

// IsBuiltinFolder reports whether id names a built-in folder.
func IsBuiltinFolder(id string) bool {
	switch id {
	case FolderDefault, FolderWork, FolderPersonal:
		return true
	}
	return false
}
