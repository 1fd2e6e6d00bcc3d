package ops

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

// Search limits
const (
	MaxQueryLength = db.MaxSearchQueryChars
	SnippetContext = 40 // runes kept on each side of the match
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query          string // required
	FolderID       string // optional filter; "default" searches everything
	BookmarkedOnly bool
	Month          string // optional YYYY-MM
	Limit          int    // default: 20, max: 100
	Offset         int    // default: 0

	// SkipRecent leaves the recent-search list untouched.
	SkipRecent bool
}

// SearchResultItem wraps a MemoSummary with a match snippet.
type SearchResultItem struct {
	memo.MemoSummary
	// Snippet is HTML-safe: user content is escaped; only <b>...</b>
	// highlight tags are present.
	Snippet string `json:"snippet"`
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []SearchResultItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"`
}

// Search finds memos whose title or content contains the query,
// case-insensitively, and records the query in recent searches.
func Search(ctx context.Context, database *sql.DB, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryLength))
	}

	filters, err := buildFilters(input.FolderID, input.BookmarkedOnly, input.Month)
	if err != nil {
		return nil, err
	}

	page := newPagination(input.Limit, input.Offset)

	memos, total, err := db.Search(ctx, database, query, filters, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	items := make([]SearchResultItem, len(memos))
	for i, m := range memos {
		items[i] = SearchResultItem{
			MemoSummary: m.ToSummary(),
			Snippet:     buildSnippet(m.Content, query, SnippetContext),
		}
	}

	if !input.SkipRecent {
		if err := db.AddRecentSearch(ctx, database, query); err != nil {
			return nil, err
		}
	}

	return &SearchOutput{
		Items:      items,
		Pagination: page.finish(len(items), total),
		Sort:       "created_at_desc",
	}, nil
}

// buildSnippet returns an escaped window of content around the first
// case-insensitive occurrence of query, with the match wrapped in <b>.
// When content does not contain the query (title-only match) the snippet is
// the start of the content.
func buildSnippet(content, query string, width int) string {
	text := []rune(memo.CollapseWhitespace(content))
	if len(text) == 0 {
		return ""
	}

	needle := foldRunes([]rune(query))
	start := indexRunes(foldRunes(text), needle)
	if start < 0 {
		if len(text) <= 2*width {
			return html.EscapeString(string(text))
		}
		return html.EscapeString(string(text[:2*width])) + "..."
	}
	end := start + len(needle)

	from := max(start-width, 0)
	to := min(end+width, len(text))

	var b strings.Builder
	if from > 0 {
		b.WriteString("...")
	}
	b.WriteString(html.EscapeString(string(text[from:start])))
	b.WriteString("<b>")
	b.WriteString(html.EscapeString(string(text[start:end])))
	b.WriteString("</b>")
	b.WriteString(html.EscapeString(string(text[end:to])))
	if to < len(text) {
		b.WriteString("...")
	}
	return b.String()
}

// foldRunes lowercases rune by rune so indexes line up with the input.
func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// indexRunes returns the index of the first occurrence of needle in hay, or -1.
func indexRunes(hay, needle []rune) int {
	if len(needle) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, r := range needle {
			if hay[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
