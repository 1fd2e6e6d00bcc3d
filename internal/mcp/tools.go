package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/jot/internal/assist"
)

var stringItems = mcp.Items(map[string]any{"type": "string"})

var checklistItems = mcp.Items(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":      map[string]any{"type": "string"},
		"text":    map[string]any{"type": "string"},
		"checked": map[string]any{"type": "boolean"},
	},
	"required": []string{"text"},
})

var linkItems = mcp.Items(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"url":   map[string]any{"type": "string"},
		"title": map[string]any{"type": "string"},
	},
	"required": []string{"url"},
})

// Memo tools

var memoCreateToolDef = mcp.NewTool("memo_create",
	mcp.WithDescription("Create a memo. Content may use inline markup: **bold**, *italic*, ~~strike~~, `code`."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Memo title")),
	mcp.WithString("content", mcp.Description("Memo body")),
	mcp.WithString("folder_id", mcp.Description("Folder ID (default: default)")),
	mcp.WithString("date", mcp.Description("Memo date as YYYY-MM-DD (default: today)")),
	mcp.WithArray("checklist", mcp.Description("Checklist items"), checklistItems),
	mcp.WithArray("links", mcp.Description("Attached links; https:// is added when missing"), linkItems),
	mcp.WithArray("images", mcp.Description("Image URIs"), stringItems),
	mcp.WithBoolean("bookmarked", mcp.Description("Bookmark the memo")),
)

var memoFetchToolDef = mcp.NewTool("memo_fetch",
	mcp.WithDescription("Fetch one memo by ID, including checklist, links and images."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Memo ID")),
	mcp.WithBoolean("include_deleted", mcp.Description("Also return soft-deleted memos")),
)

var memoUpdateToolDef = mcp.NewTool("memo_update",
	mcp.WithDescription("Update a memo. Omitted fields are left unchanged; arrays replace the stored list."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Memo ID")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("content", mcp.Description("New body")),
	mcp.WithString("folder_id", mcp.Description("Move to this folder")),
	mcp.WithString("date", mcp.Description("New date as YYYY-MM-DD")),
	mcp.WithArray("checklist", mcp.Description("Replacement checklist"), checklistItems),
	mcp.WithArray("links", mcp.Description("Replacement links"), linkItems),
	mcp.WithArray("images", mcp.Description("Replacement image URIs"), stringItems),
	mcp.WithBoolean("bookmarked", mcp.Description("Bookmark state")),
)

var memoDeleteToolDef = mcp.NewTool("memo_delete",
	mcp.WithDescription("Soft-delete a memo. Use memo_purge to remove it permanently."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Memo ID")),
)

var memoListToolDef = mcp.NewTool("memo_list",
	mcp.WithDescription("List memo summaries, newest first. The default folder lists every memo."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("folder_id", mcp.Description("Folder filter")),
	mcp.WithBoolean("bookmarked_only", mcp.Description("Only bookmarked memos")),
	mcp.WithString("month", mcp.Description("Only memos dated in this month (YYYY-MM)")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted memos")),
)

var memoSearchToolDef = mcp.NewTool("memo_search",
	mcp.WithDescription("Case-insensitive search over memo titles and bodies. Returns summaries with a highlighted snippet."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Text to find")),
	mcp.WithString("folder_id", mcp.Description("Folder filter")),
	mcp.WithBoolean("bookmarked_only", mcp.Description("Only bookmarked memos")),
	mcp.WithString("month", mcp.Description("Only memos dated in this month (YYYY-MM)")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
	mcp.WithBoolean("skip_recent", mcp.Description("Do not record the query in recent searches")),
)

var memoBookmarkToolDef = mcp.NewTool("memo_bookmark",
	mcp.WithDescription("Toggle a memo's bookmark."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Memo ID")),
)

var memoCheckToolDef = mcp.NewTool("memo_check",
	mcp.WithDescription("Toggle one checklist item on a memo."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Memo ID")),
	mcp.WithString("item_id", mcp.Required(), mcp.Description("Checklist item ID")),
)

var memoPurgeToolDef = mcp.NewTool("memo_purge",
	mcp.WithDescription("Permanently delete soft-deleted memos."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge memos deleted more than N days ago")),
)

var memoStatsToolDef = mcp.NewTool("memo_stats",
	mcp.WithDescription("Memo counts, checklist completion and attachment totals."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var memoExportToolDef = mcp.NewTool("memo_export",
	mcp.WithDescription("Export folders and memos to a JSONL file (default ~/.jot/exports)."),
	mcp.WithString("path", mcp.Description("Destination .jsonl path")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted memos")),
)

var memoImportToolDef = mcp.NewTool("memo_import",
	mcp.WithDescription("Import folders and memos from a JSONL export."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .jsonl path")),
	mcp.WithString("mode", mcp.Description("Collision handling"), mcp.Enum("error", "replace", "new_id")),
)

var memoRecentToolDef = mcp.NewTool("memo_recent",
	mcp.WithDescription("List recent search queries, newest first."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var memoRecentRemoveToolDef = mcp.NewTool("memo_recent_remove",
	mcp.WithDescription("Remove one query from recent searches."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Query to remove")),
)

var memoRecentClearToolDef = mcp.NewTool("memo_recent_clear",
	mcp.WithDescription("Clear all recent searches."),
)

// Folder tools

var folderListToolDef = mcp.NewTool("folder_list",
	mcp.WithDescription("List folders in display order with memo counts."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var folderAddToolDef = mcp.NewTool("folder_add",
	mcp.WithDescription("Create a folder at the end of the display order."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Folder name (max 20 characters)")),
	mcp.WithString("color", mcp.Description("#RRGGBB color")),
)

var folderUpdateToolDef = mcp.NewTool("folder_update",
	mcp.WithDescription("Rename or recolor a folder. Built-in folders can only change color."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Folder ID")),
	mcp.WithString("name", mcp.Description("New name")),
	mcp.WithString("color", mcp.Description("New #RRGGBB color")),
)

var folderDeleteToolDef = mcp.NewTool("folder_delete",
	mcp.WithDescription("Delete a user folder. Its memos move to the default folder."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Folder ID")),
)

var folderReorderToolDef = mcp.NewTool("folder_reorder",
	mcp.WithDescription("Set the folder display order. ids must list every folder once."),
	mcp.WithArray("ids", mcp.Required(), mcp.Description("Folder IDs in display order"), stringItems),
)

// Assist tools

func assistToolDef(name, description string, withStyle bool) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(description + " Pass either content or memo_id."),
		mcp.WithString("content", mcp.Description("Raw text to process")),
		mcp.WithString("memo_id", mcp.Description("Process this memo's body")),
		mcp.WithString("apply", mcp.Description("Write the result back to memo_id"), mcp.Enum("none", "replace", "append")),
	}
	if withStyle {
		opts = append(opts, mcp.WithString("style",
			mcp.Description("Expansion style (default detailed)"),
			mcp.Enum(assist.Styles()...)))
	}
	return mcp.NewTool(name, opts...)
}

var (
	assistTitleToolDef     = assistToolDef("assist_title", "Suggest a title from memo text.", false)
	assistSummarizeToolDef = assistToolDef("assist_summarize", "Summarize memo text in up to three key sentences.", false)
	assistExpandToolDef    = assistToolDef("assist_expand", "Expand memo text in a given style.", true)
	assistGrammarToolDef   = assistToolDef("assist_grammar", "Normalize spacing and punctuation.", false)
)

// Markup tools

var markupRenderToolDef = mcp.NewTool("markup_render",
	mcp.WithDescription("Parse inline markup into styled segments. Pass either text or memo_id."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("text", mcp.Description("Raw text")),
	mcp.WithString("memo_id", mcp.Description("Render this memo's body")),
)
