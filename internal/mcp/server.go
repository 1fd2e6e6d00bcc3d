package mcp

import (
	"database/sql"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/jot/internal/assist"
	"github.com/hpungsan/jot/internal/config"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"memo", "folder", "assist", "markup"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"memo_create": {
		def:     memoCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate },
	},
	"memo_fetch": {
		def:     memoFetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"memo_update": {
		def:     memoUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdate },
	},
	"memo_delete": {
		def:     memoDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"memo_list": {
		def:     memoListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"memo_search": {
		def:     memoSearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"memo_bookmark": {
		def:     memoBookmarkToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBookmark },
	},
	"memo_check": {
		def:     memoCheckToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCheck },
	},
	"memo_purge": {
		def:     memoPurgeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge },
	},
	"memo_stats": {
		def:     memoStatsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"memo_export": {
		def:     memoExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"memo_import": {
		def:     memoImportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
	"memo_recent": {
		def:     memoRecentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecent },
	},
	"memo_recent_remove": {
		def:     memoRecentRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecentRemove },
	},
	"memo_recent_clear": {
		def:     memoRecentClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecentClear },
	},
	"folder_list": {
		def:     folderListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderList },
	},
	"folder_add": {
		def:     folderAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderAdd },
	},
	"folder_update": {
		def:     folderUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderUpdate },
	},
	"folder_delete": {
		def:     folderDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderDelete },
	},
	"folder_reorder": {
		def:     folderReorderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderReorder },
	},
	"assist_title": {
		def:     assistTitleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.assistHandler(assist.OpTitle) },
	},
	"assist_summarize": {
		def:     assistSummarizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.assistHandler(assist.OpSummarize) },
	},
	"assist_expand": {
		def:     assistExpandToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.assistHandler(assist.OpExpand) },
	},
	"assist_grammar": {
		def:     assistGrammarToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.assistHandler(assist.OpGrammar) },
	},
	"markup_render": {
		def:     markupRenderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRender },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "folder_add" → "folder").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with jot tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, t assist.Transformer, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"jot",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, t)

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, t assist.Transformer, version string) error {
	return server.ServeStdio(NewServer(db, cfg, t, version))
}
