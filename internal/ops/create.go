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

// ChecklistInput is a checklist item supplied by a caller.
// An empty ID gets a fresh ULID.
type ChecklistInput struct {
	ID      string `json:"id,omitempty"`
	Text    string `json:"text"`
	Checked bool   `json:"checked,omitempty"`
}

// LinkInput is a link supplied by a caller. Title defaults to the URL.
type LinkInput struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Title      string // required
	Content    string
	FolderID   string // default: "default"
	Date       string // optional YYYY-MM-DD; default: today
	Checklist  []ChecklistInput
	Links      []LinkInput
	Images     []string // image URIs
	Bookmarked bool
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	ID        string `json:"id"`
	FolderID  string `json:"folder_id"`
	CreatedAt int64  `json:"created_at"`
}

// Create stores a new memo.
func Create(ctx context.Context, database *sql.DB, cfg *config.Config, input CreateInput) (*CreateOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	content := strings.TrimSpace(input.Content)
	if err := checkContent(content, cfg.MemoMaxChars); err != nil {
		return nil, err
	}

	folderID, err := resolveFolder(ctx, database, input.FolderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	createdAt, err := parseDate(input.Date, now)
	if err != nil {
		return nil, err
	}

	checklist, err := buildChecklist(input.Checklist)
	if err != nil {
		return nil, err
	}
	links, err := buildLinks(input.Links)
	if err != nil {
		return nil, err
	}
	images, err := buildImages(input.Images)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	m := &memo.Memo{
		ID:           id,
		Title:        title,
		Content:      content,
		ContentChars: memo.CountChars(content),
		FolderID:     folderID,
		Checklist:    checklist,
		Links:        links,
		Images:       images,
		Bookmarked:   input.Bookmarked,
		CreatedAt:    createdAt,
		UpdatedAt:    now.Unix(),
	}

	if err := db.Insert(ctx, database, m); err != nil {
		return nil, err
	}

	return &CreateOutput{
		ID:        id,
		FolderID:  folderID,
		CreatedAt: createdAt,
	}, nil
}

// resolveFolder defaults an empty folder to "default" and verifies it exists.
func resolveFolder(ctx context.Context, database *sql.DB, folderID string) (string, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return memo.FolderDefault, nil
	}
	exists, err := db.FolderExists(ctx, database, folderID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.NewFolderNotFound(folderID)
	}
	return folderID, nil
}

// buildChecklist trims item text, drops blank items and assigns missing IDs.
func buildChecklist(items []ChecklistInput) ([]memo.ChecklistItem, error) {
	var out []memo.ChecklistItem
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		id := strings.TrimSpace(item.ID)
		if id == "" {
			var err error
			if id, err = generateULID(); err != nil {
				return nil, errors.NewInternal(err)
			}
		}
		out = append(out, memo.ChecklistItem{ID: id, Text: text, Checked: item.Checked})
	}
	return out, nil
}

// buildLinks normalizes URLs and drops blank ones.
func buildLinks(items []LinkInput) ([]memo.Link, error) {
	var out []memo.Link
	for _, item := range items {
		url := memo.NormalizeURL(item.URL)
		if url == "" {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = url
		}
		id, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, memo.Link{ID: id, URL: url, Title: title})
	}
	return out, nil
}

// buildImages trims URIs and drops blank ones.
func buildImages(uris []string) ([]memo.Image, error) {
	var out []memo.Image
	for _, uri := range uris {
		uri = strings.TrimSpace(uri)
		if uri == "" {
			continue
		}
		id, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, memo.Image{ID: id, URI: uri})
	}
	return out, nil
}
