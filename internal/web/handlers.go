package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /memos: list memos in a folder.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := ops.ListInput{
		FolderID:       q.Get("folder"),
		BookmarkedOnly: parseBoolParam(r, "bookmarked"),
		Month:          q.Get("month"),
		Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	folders, err := ops.ListFolders(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData:   h.renderer.page("Memos", "memos"),
		Items:      result.Items,
		Pagination: result.Pagination,
		Folders:    folders.Folders,
		FolderID:   input.FolderID,
		Month:      input.Month,
		Bookmarked: input.BookmarkedOnly,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleSearch handles GET /memos/search: search titles and bodies.
// Without a query the page shows recent searches instead.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	data := SearchPageData{
		PageData:   h.renderer.page("Search", "search"),
		Query:      query,
		FolderID:   r.URL.Query().Get("folder"),
		Bookmarked: parseBoolParam(r, "bookmarked"),
		HasQuery:   query != "",
	}

	if query != "" {
		result, err := ops.Search(r.Context(), h.db, ops.SearchInput{
			Query:          query,
			FolderID:       data.FolderID,
			BookmarkedOnly: data.Bookmarked,
			Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
			Offset:         parseIntParam(r, "offset", 0),
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Items = result.Items
		data.Pagination = result.Pagination
	}

	recent, err := ops.RecentSearches(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Recent = recent.Searches

	// If htmx targets #results, render only the results fragment
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "search", "search-results", data)
		return
	}

	h.renderer.renderPage(w, r, "search", data)
}

// HandleRecentRemove handles POST /memos/search/recent/remove.
func (h *Handlers) HandleRecentRemove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if _, err := ops.RemoveRecentSearch(r.Context(), h.db, r.FormValue("q")); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.redirect(w, r, "/memos/search")
}

// HandleRecentClear handles POST /memos/search/recent/clear.
func (h *Handlers) HandleRecentClear(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ClearRecentSearches(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.redirect(w, r, "/memos/search")
}

// HandleDetail handles GET /memos/{id}: view a single memo.
// ?view=markdown renders the body as Markdown instead of inline markup.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("memo ID is required"))
		return
	}

	m, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, m)
		return
	}

	view := "markup"
	rendered := renderMarkup(m.Content)
	if r.URL.Query().Get("view") == "markdown" {
		view = "markdown"
		rendered = renderMarkdown(m.Content)
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:     h.renderer.page(m.Title, "memos"),
		Memo:         m,
		RenderedHTML: rendered,
		View:         view,
	})
}

// HandleBookmark handles POST /memos/{id}/bookmark: toggle the bookmark.
func (h *Handlers) HandleBookmark(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, err := ops.ToggleBookmark(r.Context(), h.db, ops.ToggleBookmarkInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		label := "☆"
		if result.Bookmarked {
			label = "★"
		}
		writeFragment(w, `<span class="bookmark">`+label+`</span>`)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.redirect(w, r, "/memos/"+url.PathEscape(id))
}

// HandleCheck handles POST /memos/{id}/checklist/{item}: toggle one item.
func (h *Handlers) HandleCheck(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, err := ops.ToggleChecklistItem(r.Context(), h.db, ops.ToggleChecklistInput{
		ID:     id,
		ItemID: r.PathValue("item"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		writeFragment(w, `<span class="checklist-progress">`+
			strconv.Itoa(result.Done)+"/"+strconv.Itoa(result.Total)+`</span>`)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.redirect(w, r, "/memos/"+url.PathEscape(id))
}

// HandleDelete handles DELETE /memos/{id} and POST /memos/{id}/delete: soft-delete a memo.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("memo ID is required"))
		return
	}

	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.redirect(w, r, "/memos")
}

// HandlePurge handles POST /memos/purge: permanently delete soft-deleted memos.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	var input ops.PurgeInput
	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &d
	}

	result, err := ops.Purge(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		writeFragment(w, `<div class="purge-result">`+template.HTMLEscapeString(result.Message)+`</div>`)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	http.Redirect(w, r, "/memos?include_deleted=true", http.StatusFound)
}

// HandleFolders handles GET /folders: folder overview with counts.
func (h *Handlers) HandleFolders(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListFolders(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "folders", FoldersPageData{
		PageData: h.renderer.page("Folders", "folders"),
		Folders:  result.Folders,
	})
}

// HandleFolderAdd handles POST /folders: create a folder from a form.
func (h *Handlers) HandleFolderAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	f, err := ops.AddFolder(r.Context(), h.db, ops.AddFolderInput{
		Name:  r.FormValue("name"),
		Color: r.FormValue("color"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, f)
		return
	}
	h.redirect(w, r, "/folders")
}

// HandleFolderDelete handles POST /folders/{id}/delete.
func (h *Handlers) HandleFolderDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.DeleteFolder(r.Context(), h.db, r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.redirect(w, r, "/folders")
}

// HandleStats handles GET /stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ops.Stats(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, stats)
		return
	}

	h.renderer.renderPage(w, r, "stats", StatsPageData{
		PageData: h.renderer.page("Stats", "stats"),
		Stats:    stats,
	})
}

// redirect sends htmx clients an HX-Redirect header and everyone else a 302.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// writeFragment writes a small HTML fragment for htmx swaps.
func writeFragment(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
