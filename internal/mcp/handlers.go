package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/jot/internal/assist"
	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	assist assist.Transformer
}

// NewHandlers creates a new Handlers instance. A nil transformer falls back
// to the local heuristics.
func NewHandlers(db *sql.DB, cfg *config.Config, t assist.Transformer) *Handlers {
	if t == nil {
		t = assist.Local{}
	}
	return &Handlers{db: db, cfg: cfg, assist: t}
}

// Request types for each tool

// CreateRequest represents the arguments for memo_create.
type CreateRequest struct {
	Title      string               `json:"title"`
	Content    string               `json:"content,omitempty"`
	FolderID   string               `json:"folder_id,omitempty"`
	Date       string               `json:"date,omitempty"`
	Checklist  []ops.ChecklistInput `json:"checklist,omitempty"`
	Links      []ops.LinkInput      `json:"links,omitempty"`
	Images     []string             `json:"images,omitempty"`
	Bookmarked bool                 `json:"bookmarked,omitempty"`
}

// FetchRequest represents the arguments for memo_fetch.
type FetchRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// UpdateRequest represents the arguments for memo_update.
type UpdateRequest struct {
	ID         string                `json:"id"`
	Title      *string               `json:"title,omitempty"`
	Content    *string               `json:"content,omitempty"`
	FolderID   *string               `json:"folder_id,omitempty"`
	Date       *string               `json:"date,omitempty"`
	Checklist  *[]ops.ChecklistInput `json:"checklist,omitempty"`
	Links      *[]ops.LinkInput      `json:"links,omitempty"`
	Images     *[]string             `json:"images,omitempty"`
	Bookmarked *bool                 `json:"bookmarked,omitempty"`
}

// IDRequest represents tools that take only an ID.
type IDRequest struct {
	ID string `json:"id"`
}

// CheckRequest represents the arguments for memo_check.
type CheckRequest struct {
	ID     string `json:"id"`
	ItemID string `json:"item_id"`
}

// ListRequest represents the arguments for memo_list.
type ListRequest struct {
	FolderID       string `json:"folder_id,omitempty"`
	BookmarkedOnly bool   `json:"bookmarked_only,omitempty"`
	Month          string `json:"month,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// SearchRequest represents the arguments for memo_search.
type SearchRequest struct {
	Query          string `json:"query"`
	FolderID       string `json:"folder_id,omitempty"`
	BookmarkedOnly bool   `json:"bookmarked_only,omitempty"`
	Month          string `json:"month,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	SkipRecent     bool   `json:"skip_recent,omitempty"`
}

// PurgeRequest represents the arguments for memo_purge.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// ExportRequest represents the arguments for memo_export.
type ExportRequest struct {
	Path           string `json:"path,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// ImportRequest represents the arguments for memo_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// QueryRequest represents the arguments for memo_recent_remove.
type QueryRequest struct {
	Query string `json:"query"`
}

// FolderAddRequest represents the arguments for folder_add.
type FolderAddRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// FolderUpdateRequest represents the arguments for folder_update.
type FolderUpdateRequest struct {
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// FolderReorderRequest represents the arguments for folder_reorder.
type FolderReorderRequest struct {
	IDs []string `json:"ids"`
}

// AssistRequest represents the arguments for the assist_* tools.
type AssistRequest struct {
	Content string `json:"content,omitempty"`
	MemoID  string `json:"memo_id,omitempty"`
	Style   string `json:"style,omitempty"`
	Apply   string `json:"apply,omitempty"`
}

// RenderRequest represents the arguments for markup_render.
type RenderRequest struct {
	Text   string `json:"text,omitempty"`
	MemoID string `json:"memo_id,omitempty"`
}

// Handler implementations

// HandleCreate handles the memo_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Create(ctx, h.db, h.cfg, ops.CreateInput{
		Title:      input.Title,
		Content:    input.Content,
		FolderID:   input.FolderID,
		Date:       input.Date,
		Checklist:  input.Checklist,
		Links:      input.Links,
		Images:     input.Images,
		Bookmarked: input.Bookmarked,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the memo_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Fetch(ctx, h.db, ops.FetchInput{
		ID:             input.ID,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the memo_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Update(ctx, h.db, h.cfg, ops.UpdateInput{
		ID:         input.ID,
		Title:      input.Title,
		Content:    input.Content,
		FolderID:   input.FolderID,
		Date:       input.Date,
		Checklist:  input.Checklist,
		Links:      input.Links,
		Images:     input.Images,
		Bookmarked: input.Bookmarked,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the memo_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the memo_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		FolderID:       input.FolderID,
		BookmarkedOnly: input.BookmarkedOnly,
		Month:          input.Month,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the memo_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Search(ctx, h.db, ops.SearchInput{
		Query:          input.Query,
		FolderID:       input.FolderID,
		BookmarkedOnly: input.BookmarkedOnly,
		Month:          input.Month,
		Limit:          input.Limit,
		Offset:         input.Offset,
		SkipRecent:     input.SkipRecent,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBookmark handles the memo_bookmark tool call.
func (h *Handlers) HandleBookmark(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ToggleBookmark(ctx, h.db, ops.ToggleBookmarkInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCheck handles the memo_check tool call.
func (h *Handlers) HandleCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ToggleChecklistItem(ctx, h.db, ops.ToggleChecklistInput{
		ID:     input.ID,
		ItemID: input.ItemID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the memo_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Purge(ctx, h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the memo_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Stats(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the memo_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:           input.Path,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the memo_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRecent handles the memo_recent tool call.
func (h *Handlers) HandleRecent(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.RecentSearches(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRecentRemove handles the memo_recent_remove tool call.
func (h *Handlers) HandleRecentRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[QueryRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.RemoveRecentSearch(ctx, h.db, input.Query)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRecentClear handles the memo_recent_clear tool call.
func (h *Handlers) HandleRecentClear(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ClearRecentSearches(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFolderList handles the folder_list tool call.
func (h *Handlers) HandleFolderList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListFolders(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFolderAdd handles the folder_add tool call.
func (h *Handlers) HandleFolderAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FolderAddRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.AddFolder(ctx, h.db, ops.AddFolderInput{Name: input.Name, Color: input.Color})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFolderUpdate handles the folder_update tool call.
func (h *Handlers) HandleFolderUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FolderUpdateRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.UpdateFolder(ctx, h.db, ops.UpdateFolderInput{
		ID:    input.ID,
		Name:  input.Name,
		Color: input.Color,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFolderDelete handles the folder_delete tool call.
func (h *Handlers) HandleFolderDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.DeleteFolder(ctx, h.db, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFolderReorder handles the folder_reorder tool call.
func (h *Handlers) HandleFolderReorder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FolderReorderRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ReorderFolders(ctx, h.db, input.IDs)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// assistHandler returns the handler for one assist_* tool.
func (h *Handlers) assistHandler(op assist.Operation) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := decode[AssistRequest](req)
		if err != nil {
			return errorResult(err), nil
		}

		result, err := ops.Assist(ctx, h.db, h.cfg, h.assist, ops.AssistInput{
			Operation: string(op),
			Content:   input.Content,
			MemoID:    input.MemoID,
			Style:     input.Style,
			Apply:     ops.ApplyMode(input.Apply),
		})
		if err != nil {
			return errorResult(err), nil
		}

		return successResult(result)
	}
}

// HandleRender handles the markup_render tool call.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RenderRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Render(ctx, h.db, ops.RenderInput{Text: input.Text, MemoID: input.MemoID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if jErr, ok := errors.As(err); ok {
		// Keep any wrapping context in front of the structured message
		message := jErr.Message
		if prefix := strings.TrimSuffix(err.Error(), jErr.Error()); prefix != err.Error() {
			message = prefix + jErr.Message
		}
		errorObj := map[string]any{
			"code":    jErr.Code,
			"message": message,
			"status":  jErr.Status,
		}
		if jErr.Code != errors.ErrInternal && jErr.Details != nil {
			errorObj["details"] = jErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
