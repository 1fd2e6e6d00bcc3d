package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

// Folder limits
const (
	MaxFolderNameChars = 20
	DefaultFolderColor = "#6B7280"
)

// ListFoldersOutput contains the result of the ListFolders operation.
type ListFoldersOutput struct {
	Folders []memo.FolderWithCount `json:"folders"`
}

// ListFolders returns every folder in display order with memo counts.
func ListFolders(ctx context.Context, database *sql.DB) (*ListFoldersOutput, error) {
	folders, err := db.ListFolders(ctx, database)
	if err != nil {
		return nil, err
	}
	if folders == nil {
		folders = []memo.FolderWithCount{}
	}
	return &ListFoldersOutput{Folders: folders}, nil
}

// AddFolderInput contains parameters for the AddFolder operation.
type AddFolderInput struct {
	Name  string // required
	Color string // optional #RRGGBB
}

// AddFolder creates a folder at the end of the display order.
func AddFolder(ctx context.Context, database *sql.DB, input AddFolderInput) (*memo.Folder, error) {
	name, err := validateFolderName(input.Name)
	if err != nil {
		return nil, err
	}
	color, err := validateFolderColor(input.Color, DefaultFolderColor)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	pos, err := db.NextFolderPosition(ctx, database)
	if err != nil {
		return nil, err
	}

	f := &memo.Folder{
		ID:        id,
		Name:      name,
		Color:     color,
		Position:  pos,
		CreatedAt: time.Now().Unix(),
	}
	if err := db.InsertFolder(ctx, database, f); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewNameAlreadyExists(name)
		}
		return nil, err
	}
	return f, nil
}

// UpdateFolderInput contains parameters for the UpdateFolder operation.
type UpdateFolderInput struct {
	ID    string
	Name  *string
	Color *string
}

// UpdateFolder renames or recolors a folder. Built-in folders only accept a
// color change.
func UpdateFolder(ctx context.Context, database *sql.DB, input UpdateFolderInput) (*memo.Folder, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name == nil && input.Color == nil {
		return nil, errors.NewInvalidRequest("at least one of name or color must be provided")
	}

	f, err := db.GetFolder(ctx, database, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateFolderName(*input.Name)
		if err != nil {
			return nil, err
		}
		if f.Builtin && name != f.Name {
			return nil, errors.NewProtectedFolder(id, "rename")
		}
		f.Name = name
	}

	if input.Color != nil {
		if f.Color, err = validateFolderColor(*input.Color, ""); err != nil {
			return nil, err
		}
	}

	if err := db.UpdateFolder(ctx, database, f); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewNameAlreadyExists(f.Name)
		}
		return nil, err
	}
	return f, nil
}

// DeleteFolderOutput contains the result of the DeleteFolder operation.
type DeleteFolderOutput struct {
	Deleted    bool   `json:"deleted"`
	ID         string `json:"id"`
	MovedMemos int    `json:"moved_memos"`
}

// DeleteFolder removes a user folder; its memos move to the default folder.
func DeleteFolder(ctx context.Context, database *sql.DB, id string) (*DeleteFolderOutput, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if memo.IsBuiltinFolder(id) {
		return nil, errors.NewProtectedFolder(id, "delete")
	}

	moved, err := db.DeleteFolder(ctx, database, id)
	if err != nil {
		return nil, err
	}
	return &DeleteFolderOutput{Deleted: true, ID: id, MovedMemos: moved}, nil
}

// ReorderFolders sets the display order. ids must list every folder exactly once.
func ReorderFolders(ctx context.Context, database *sql.DB, ids []string) (*ListFoldersOutput, error) {
	existing, err := db.ListFolders(ctx, database)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(existing) {
		return nil, errors.NewInvalidRequest("ids must list every folder exactly once")
	}

	cleaned := make([]string, len(ids))
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return nil, errors.NewInvalidRequest("ids must list every folder exactly once")
		}
		seen[id] = true
		cleaned[i] = id
	}

	if err := db.ReorderFolders(ctx, database, cleaned); err != nil {
		return nil, err
	}
	return ListFolders(ctx, database)
}

func validateFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewInvalidRequest("folder name is required")
	}
	if utf8.RuneCountInString(name) > MaxFolderNameChars {
		return "", errors.NewInvalidRequest("folder name is too long")
	}
	return name, nil
}

// validateFolderColor normalizes color; empty input yields def.
func validateFolderColor(color, def string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		if def == "" {
			return "", errors.NewInvalidRequest("color must not be empty")
		}
		return def, nil
	}
	if !memo.ValidColor(color) {
		return "", errors.NewInvalidRequest("color must be #RRGGBB")
	}
	return memo.NormalizeColor(color), nil
}
