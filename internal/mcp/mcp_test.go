package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/jot/internal/assist"
	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	cleanup := func() {
		database.Close()
	}

	return database, cfg, cleanup
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// createMemo stores a memo through the handler and returns its ID.
func createMemo(t *testing.T, h *Handlers, args map[string]any) string {
	t.Helper()
	result, err := h.HandleCreate(context.Background(), makeRequest(args))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return parseOutput(t, result)["id"].(string)
}

// TestHandleCreate tests the memo_create handler.
func TestHandleCreate(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "create with attachments",
			args: map[string]any{
				"title":     "장보기",
				"content":   "**우유** 사기",
				"folder_id": "personal",
				"checklist": []any{map[string]any{"text": "우유"}},
				"links":     []any{map[string]any{"url": "example.com"}},
				"images":    []any{"file:///a.png"},
			},
		},
		{
			name:      "create without title",
			args:      map[string]any{"content": "body"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "create in unknown folder",
			args:      map[string]any{"title": "t", "folder_id": "nowhere"},
			wantError: true,
			errorCode: "FOLDER_NOT_FOUND",
		},
		{
			name:      "create with bad date",
			args:      map[string]any{"title": "t", "date": "2024/01/01"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "create with content over the limit",
			args:      map[string]any{"title": "t", "content": strings.Repeat("가", cfg.MemoMaxChars+1)},
			wantError: true,
			errorCode: "MEMO_TOO_LARGE",
		},
		{
			name:      "create with wrong argument type",
			args:      map[string]any{"title": 42},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleCreate(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

// TestHandleFetchUpdateDelete covers a memo's edit cycle.
func TestHandleFetchUpdateDelete(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	id := createMemo(t, h, map[string]any{"title": "초안", "content": "본문"})

	result, _ := h.HandleFetch(ctx, makeRequest(map[string]any{"id": id}))
	out := parseOutput(t, result)
	if out["title"] != "초안" || out["folder_name"] != "전체" {
		t.Errorf("fetch output = %v", out)
	}

	result, _ = h.HandleUpdate(ctx, makeRequest(map[string]any{
		"id":         id,
		"title":      "완성",
		"bookmarked": true,
	}))
	parseOutput(t, result)

	result, _ = h.HandleFetch(ctx, makeRequest(map[string]any{"id": id}))
	out = parseOutput(t, result)
	if out["title"] != "완성" || out["content"] != "본문" || out["bookmarked"] != true {
		t.Errorf("after update = %v", out)
	}

	result, _ = h.HandleUpdate(ctx, makeRequest(map[string]any{"id": id}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, _ = h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	out = parseOutput(t, result)
	if out["deleted"] != true {
		t.Errorf("delete output = %v", out)
	}

	result, _ = h.HandleFetch(ctx, makeRequest(map[string]any{"id": id}))
	assertErrorCode(t, result, "NOT_FOUND")

	result, _ = h.HandleFetch(ctx, makeRequest(map[string]any{"id": id, "include_deleted": true}))
	out = parseOutput(t, result)
	if out["deleted_at"] == nil {
		t.Error("expected deleted_at on soft-deleted memo")
	}
}

// TestHandleListAndSearch tests memo_list and memo_search.
func TestHandleListAndSearch(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createMemo(t, h, map[string]any{
			"title":     fmt.Sprintf("회의 %d", i),
			"content":   "Release 준비",
			"folder_id": "work",
		})
	}
	createMemo(t, h, map[string]any{"title": "일기", "content": "산책"})

	result, _ := h.HandleList(ctx, makeRequest(map[string]any{"folder_id": "work", "limit": 2}))
	out := parseOutput(t, result)
	items := out["items"].([]any)
	pagination := out["pagination"].(map[string]any)
	if len(items) != 2 || pagination["total"] != float64(3) || pagination["has_more"] != true {
		t.Errorf("list output = %v", out)
	}

	result, _ = h.HandleList(ctx, makeRequest(map[string]any{}))
	out = parseOutput(t, result)
	if out["pagination"].(map[string]any)["total"] != float64(4) {
		t.Errorf("default folder should list every memo: %v", out["pagination"])
	}

	result, _ = h.HandleSearch(ctx, makeRequest(map[string]any{"query": "release"}))
	out = parseOutput(t, result)
	items = out["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("search items = %d, want 3", len(items))
	}
	snippet := items[0].(map[string]any)["snippet"].(string)
	if !strings.Contains(snippet, "<b>Release</b>") {
		t.Errorf("snippet = %q", snippet)
	}

	result, _ = h.HandleSearch(ctx, makeRequest(map[string]any{"query": "산책", "skip_recent": true}))
	parseOutput(t, result)

	result, _ = h.HandleSearch(ctx, makeRequest(map[string]any{"query": "  "}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, _ = h.HandleRecent(ctx, makeRequest(nil))
	out = parseOutput(t, result)
	searches := out["searches"].([]any)
	if len(searches) != 1 || searches[0].(map[string]any)["query"] != "release" {
		t.Errorf("recent = %v", searches)
	}

	result, _ = h.HandleRecentRemove(ctx, makeRequest(map[string]any{"query": "release"}))
	if out = parseOutput(t, result); out["removed"] != true {
		t.Errorf("remove output = %v", out)
	}

	result, _ = h.HandleRecentClear(ctx, makeRequest(nil))
	if out = parseOutput(t, result); out["cleared"] != float64(0) {
		t.Errorf("clear output = %v", out)
	}
}

// TestHandleBookmarkAndCheck tests the toggle tools.
func TestHandleBookmarkAndCheck(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	id := createMemo(t, h, map[string]any{
		"title":     "할 일",
		"checklist": []any{map[string]any{"id": "c1", "text": "빨래"}, map[string]any{"text": "청소"}},
	})

	result, _ := h.HandleBookmark(ctx, makeRequest(map[string]any{"id": id}))
	if out := parseOutput(t, result); out["bookmarked"] != true {
		t.Errorf("bookmark output = %v", out)
	}
	result, _ = h.HandleBookmark(ctx, makeRequest(map[string]any{"id": id}))
	if out := parseOutput(t, result); out["bookmarked"] != false {
		t.Errorf("second bookmark output = %v", out)
	}

	result, _ = h.HandleCheck(ctx, makeRequest(map[string]any{"id": id, "item_id": "c1"}))
	out := parseOutput(t, result)
	if out["checked"] != true || out["done"] != float64(1) || out["total"] != float64(2) {
		t.Errorf("check output = %v", out)
	}

	result, _ = h.HandleCheck(ctx, makeRequest(map[string]any{"id": id, "item_id": "missing"}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, _ = h.HandleBookmark(ctx, makeRequest(map[string]any{"id": "missing"}))
	assertErrorCode(t, result, "NOT_FOUND")
}

// TestHandleFolders tests the folder_* tools.
func TestHandleFolders(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	result, _ := h.HandleFolderAdd(ctx, makeRequest(map[string]any{"name": "여행", "color": "#00ff00"}))
	folder := parseOutput(t, result)
	folderID := folder["id"].(string)
	if folder["color"] != "#00FF00" {
		t.Errorf("color = %v", folder["color"])
	}

	result, _ = h.HandleFolderAdd(ctx, makeRequest(map[string]any{"name": "여행"}))
	assertErrorCode(t, result, "NAME_ALREADY_EXISTS")

	result, _ = h.HandleFolderUpdate(ctx, makeRequest(map[string]any{"id": "work", "name": "회사"}))
	assertErrorCode(t, result, "PROTECTED_FOLDER")

	result, _ = h.HandleFolderUpdate(ctx, makeRequest(map[string]any{"id": folderID, "name": "출장"}))
	if out := parseOutput(t, result); out["name"] != "출장" {
		t.Errorf("update output = %v", out)
	}

	result, _ = h.HandleFolderReorder(ctx, makeRequest(map[string]any{
		"ids": []any{folderID, "default", "work", "personal"},
	}))
	out := parseOutput(t, result)
	folders := out["folders"].([]any)
	if folders[0].(map[string]any)["id"] != folderID {
		t.Errorf("first folder = %v", folders[0])
	}

	createMemo(t, h, map[string]any{"title": "t", "folder_id": folderID})

	result, _ = h.HandleFolderDelete(ctx, makeRequest(map[string]any{"id": folderID}))
	if out := parseOutput(t, result); out["moved_memos"] != float64(1) {
		t.Errorf("delete output = %v", out)
	}

	result, _ = h.HandleFolderDelete(ctx, makeRequest(map[string]any{"id": "default"}))
	assertErrorCode(t, result, "PROTECTED_FOLDER")

	result, _ = h.HandleFolderList(ctx, makeRequest(nil))
	out = parseOutput(t, result)
	if len(out["folders"].([]any)) != 3 {
		t.Errorf("folders = %v", out["folders"])
	}
}

// TestHandleAssist tests the assist_* tools with the local heuristics.
func TestHandleAssist(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, assist.Local{})
	ctx := context.Background()

	result, _ := h.assistHandler(assist.OpTitle)(ctx, makeRequest(map[string]any{
		"content": "프로젝트 킥오프\n일정과 역할 정리",
	}))
	out := parseOutput(t, result)
	if out["text"] != "프로젝트 킥오프" || out["insufficient"] != false {
		t.Errorf("title output = %v", out)
	}

	result, _ = h.assistHandler(assist.OpSummarize)(ctx, makeRequest(map[string]any{"content": "짧다"}))
	out = parseOutput(t, result)
	if out["insufficient"] != true || out["min_chars"] != float64(assist.MinSummaryChars) {
		t.Errorf("summarize output = %v", out)
	}

	id := createMemo(t, h, map[string]any{"title": "t", "content": "hello세상 ."})
	result, _ = h.assistHandler(assist.OpGrammar)(ctx, makeRequest(map[string]any{"memo_id": id, "apply": "replace"}))
	out = parseOutput(t, result)
	if out["applied"] != true || out["text"] != "hello 세상." {
		t.Errorf("grammar output = %v", out)
	}

	result, _ = h.assistHandler(assist.OpTitle)(ctx, makeRequest(map[string]any{"content": "abcdef", "apply": "append"}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

// TestHandleRender tests the markup_render tool.
func TestHandleRender(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	result, _ := h.HandleRender(ctx, makeRequest(map[string]any{"text": "**굵게** 보통"}))
	out := parseOutput(t, result)
	if out["plain_text"] != "굵게 보통" {
		t.Errorf("plain_text = %v", out["plain_text"])
	}
	segments := out["segments"].([]any)
	first := segments[0].(map[string]any)
	if tags := first["tags"].([]any); len(tags) != 1 || tags[0] != "bold" {
		t.Errorf("first segment = %v", first)
	}

	result, _ = h.HandleRender(ctx, makeRequest(map[string]any{"memo_id": "missing"}))
	assertErrorCode(t, result, "NOT_FOUND")
}

// TestHandleExportImport tests memo_export and memo_import.
func TestHandleExportImport(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	id := createMemo(t, h, map[string]any{"title": "백업 대상"})
	path := filepath.Join(t.TempDir(), "backup.jsonl")

	result, _ := h.HandleExport(ctx, makeRequest(map[string]any{"path": path}))
	out := parseOutput(t, result)
	if out["count"] != float64(1) || out["folders"] != float64(3) {
		t.Errorf("export output = %v", out)
	}

	result, _ = h.HandleImport(ctx, makeRequest(map[string]any{"path": path}))
	out = parseOutput(t, result)
	errs := out["errors"].([]any)
	if len(errs) != 1 || errs[0].(map[string]any)["code"] != "ID_COLLISION" || errs[0].(map[string]any)["id"] != id {
		t.Errorf("error-mode import = %v", out)
	}

	result, _ = h.HandleImport(ctx, makeRequest(map[string]any{"path": path, "mode": "new_id"}))
	if out = parseOutput(t, result); out["imported"] != float64(1) {
		t.Errorf("new_id import = %v", out)
	}

	result, _ = h.HandleImport(ctx, makeRequest(map[string]any{"path": path, "mode": "rename"}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, _ = h.HandleExport(ctx, makeRequest(map[string]any{"path": filepath.Join(t.TempDir(), "x.txt")}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

// TestHandlePurgeAndStats tests memo_purge and memo_stats.
func TestHandlePurgeAndStats(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg, nil)
	ctx := context.Background()

	createMemo(t, h, map[string]any{"title": "keep", "bookmarked": true})
	drop := createMemo(t, h, map[string]any{"title": "drop"})
	if result, _ := h.HandleDelete(ctx, makeRequest(map[string]any{"id": drop})); result.IsError {
		t.Fatal(extractErrorMessage(result))
	}

	result, _ := h.HandleStats(ctx, makeRequest(nil))
	out := parseOutput(t, result)
	if out["total_memos"] != float64(1) || out["deleted_memos"] != float64(1) || out["bookmarked_memos"] != float64(1) {
		t.Errorf("stats = %v", out)
	}

	result, _ = h.HandlePurge(ctx, makeRequest(map[string]any{"older_than_days": 7}))
	if out = parseOutput(t, result); out["purged"] != float64(0) {
		t.Errorf("purge with age = %v", out)
	}

	result, _ = h.HandlePurge(ctx, makeRequest(map[string]any{}))
	if out = parseOutput(t, result); out["purged"] != float64(1) {
		t.Errorf("purge = %v", out)
	}

	result, _ = h.HandlePurge(ctx, makeRequest(map[string]any{"older_than_days": -1}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestAssistExpandToolDef_StyleEnum(t *testing.T) {
	prop, ok := assistExpandToolDef.InputSchema.Properties["style"].(map[string]any)
	if !ok {
		t.Fatalf("style property missing: %v", assistExpandToolDef.InputSchema.Properties)
	}
	got, _ := prop["enum"].([]string)
	want := assist.Styles()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("style enum = %v, want %v", got, want)
	}
	if _, ok := assistTitleToolDef.InputSchema.Properties["style"]; ok {
		t.Error("assist_title should not take a style")
	}
}

func TestServerRegistration(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	s := NewServer(database, cfg, nil, "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"memo_create", "memo_fetch", "memo_update", "memo_delete",
		"memo_list", "memo_search", "memo_bookmark", "memo_check",
		"memo_purge", "memo_stats", "memo_export", "memo_import",
		"memo_recent", "memo_recent_remove", "memo_recent_clear",
		"folder_list", "folder_add", "folder_update", "folder_delete", "folder_reorder",
		"assist_title", "assist_summarize", "assist_expand", "assist_grammar",
		"markup_render",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTools = []string{"memo_purge", "folder_delete", "memo_purge"}
	s := NewServer(database, cfg, nil, "test")
	tools := s.ListTools()

	if len(tools) != len(toolRegistry)-2 {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(toolRegistry)-2)
	}
	for _, name := range []string{"memo_purge", "folder_delete"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
	if _, ok := tools["memo_create"]; !ok {
		t.Error("memo_create should be registered")
	}
}

func TestServerRegistration_WithDisabledTypes(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTypes = []string{"assist", "markup"}
	s := NewServer(database, cfg, nil, "test")
	tools := s.ListTools()

	for name := range tools {
		if typ := GetTypeForTool(name); typ == "assist" || typ == "markup" {
			t.Errorf("tool %q of disabled type should not be registered", name)
		}
	}
	if len(tools) != len(toolRegistry)-5 {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(toolRegistry)-5)
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTools = AllToolNames()
	s := NewServer(database, cfg, nil, "test")

	if tools := s.ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (all disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"memo_purge", "assist_expand"}, 0},
		{"one unknown", []string{"memo_purge", "fake_tool"}, 1},
		{"all unknown", []string{"foo", "bar", "baz"}, 3},
		{"empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if unknown := ValidateDisabledTools(tt.input); len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	unknown := ValidateDisabledTypes([]string{"memo", "folder", "notebook"})
	if len(unknown) != 1 || unknown[0] != "notebook" {
		t.Errorf("unknown = %v, want [notebook]", unknown)
	}
}

func TestAllToolNames_TypesAreKnown(t *testing.T) {
	names := AllToolNames()
	if len(names) != 25 {
		t.Errorf("AllToolNames() returned %d names, want 25", len(names))
	}

	types := make([]string, 0, len(names))
	for _, name := range names {
		types = append(types, GetTypeForTool(name))
	}
	if unknown := ValidateDisabledTypes(types); len(unknown) != 0 {
		t.Errorf("tools with unknown types: %v", unknown)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_WrappedErrorPreservesContext(t *testing.T) {
	wrapped := fmt.Errorf("ids[2]: %w", errors.NewFolderNotFound("x"))

	errObj := errorObject(t, errorResult(wrapped))
	if errObj["code"] != string(errors.ErrFolderNotFound) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrFolderNotFound)
	}
	msg := errObj["message"].(string)
	if !strings.HasPrefix(msg, "ids[2]: ") || strings.Contains(msg, "FOLDER_NOT_FOUND") {
		t.Errorf("message = %q", msg)
	}
}

func TestErrorResult_PlainErrorIsInternal(t *testing.T) {
	errObj := errorObject(t, errorResult(fmt.Errorf("boom")))
	if errObj["code"] != "INTERNAL" || errObj["message"] == "boom" {
		t.Errorf("error = %v", errObj)
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	errObj := errorObject(t, errorResult(errors.NewNotFound("abc")))
	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

// errorObject returns the "error" object of an error result.
func errorObject(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in payload: %v", payload)
	}
	return errObj
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if !result.IsError {
		t.Errorf("expected error %s, got success", expectedCode)
		return
	}
	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	code, _ := errorObject(t, result)["code"].(string)
	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
