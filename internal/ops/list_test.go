package ops

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

func TestList(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		mustCreate(t, database, CreateInput{
			Title:    fmt.Sprintf("work %d", i),
			FolderID: memo.FolderWork,
			Date:     fmt.Sprintf("2024-05-0%d", i),
		})
	}
	mustCreate(t, database, CreateInput{Title: "personal", FolderID: memo.FolderPersonal, Date: "2024-06-01", Bookmarked: true})

	out, err := List(ctx, database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Total != 4 || len(out.Items) != 4 {
		t.Fatalf("total = %d, want 4", out.Pagination.Total)
	}
	if out.Items[0].Title != "personal" || out.Items[3].Title != "work 1" {
		t.Errorf("order = %q..%q, want newest date first", out.Items[0].Title, out.Items[3].Title)
	}
	if out.Sort != "created_at_desc" {
		t.Errorf("Sort = %q", out.Sort)
	}

	out, _ = List(ctx, database, ListInput{FolderID: memo.FolderWork, Limit: 2})
	if out.Pagination.Total != 3 || len(out.Items) != 2 || !out.Pagination.HasMore {
		t.Errorf("work page = %+v", out.Pagination)
	}

	out, _ = List(ctx, database, ListInput{BookmarkedOnly: true})
	if out.Pagination.Total != 1 {
		t.Errorf("bookmarked total = %d, want 1", out.Pagination.Total)
	}

	out, _ = List(ctx, database, ListInput{Month: "2024-05"})
	if out.Pagination.Total != 3 {
		t.Errorf("month total = %d, want 3", out.Pagination.Total)
	}

	if _, err := List(ctx, database, ListInput{Month: "May"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestList_EmptyReturnsArray(t *testing.T) {
	database := openTestDB(t)

	out, err := List(context.Background(), database, ListInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Items == nil {
		t.Error("Items = nil, want empty slice")
	}
}

func TestSearch(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	mustCreate(t, database, CreateInput{Title: "Go 스터디", Content: "채널과 고루틴을 공부했다"})
	mustCreate(t, database, CreateInput{Title: "회의록", Content: "다음 주 목표: GO 배포"})
	mustCreate(t, database, CreateInput{Title: "기타", Content: "아무 내용"})

	out, err := Search(ctx, database, SearchInput{Query: "go"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if out.Pagination.Total != 2 {
		t.Errorf("total = %d, want 2", out.Pagination.Total)
	}

	recent, err := RecentSearches(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent.Searches) != 1 || recent.Searches[0].Query != "go" {
		t.Errorf("recent = %+v", recent.Searches)
	}

	// SkipRecent leaves the list alone
	if _, err := Search(ctx, database, SearchInput{Query: "회의", SkipRecent: true}); err != nil {
		t.Fatal(err)
	}
	recent, _ = RecentSearches(ctx, database)
	if len(recent.Searches) != 1 {
		t.Errorf("recent len = %d, want 1", len(recent.Searches))
	}
}

func TestSearch_Validation(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	if _, err := Search(ctx, database, SearchInput{Query: "  "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
	long := strings.Repeat("a", MaxQueryLength+1)
	if _, err := Search(ctx, database, SearchInput{Query: long}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestBuildSnippet(t *testing.T) {
	tests := []struct {
		name    string
		content string
		query   string
		width   int
		want    string
	}{
		{"match in middle", "aaaa NEEDLE bbbb", "needle", 3, "...aa <b>NEEDLE</b> bb..."},
		{"match at start", "needle rest", "NEEDLE", 40, "<b>needle</b> rest"},
		{"escapes html", "<i>x</i> needle", "needle", 40, "&lt;i&gt;x&lt;/i&gt; <b>needle</b>"},
		{"korean", "오늘의 핵심 정리", "핵심", 2, "...의 <b>핵심</b> 정..."},
		{"title only match", "본문", "제목", 40, "본문"},
		{"title only long", strings.Repeat("가", 10), "x", 2, "가가가가..."},
		{"empty content", "", "x", 40, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildSnippet(tt.content, tt.query, tt.width); got != tt.want {
				t.Errorf("buildSnippet = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecentSearches_RemoveAndClear(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	for _, q := range []string{"a", "b", "c"} {
		if _, err := Search(ctx, database, SearchInput{Query: q}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := RemoveRecentSearch(ctx, database, "b")
	if err != nil || !removed.Removed {
		t.Errorf("RemoveRecentSearch = %+v, %v", removed, err)
	}
	if _, err := RemoveRecentSearch(ctx, database, ""); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}

	cleared, err := ClearRecentSearches(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Cleared != 2 {
		t.Errorf("Cleared = %d, want 2", cleared.Cleared)
	}
}

func TestStats(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	mustCreate(t, database, CreateInput{
		Title:      "a",
		Bookmarked: true,
		Checklist:  []ChecklistInput{{Text: "x", Checked: true}, {Text: "y"}, {Text: "z"}},
	})
	mustCreate(t, database, CreateInput{Title: "old", Date: "2001-01-01"})

	out, err := Stats(ctx, database)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if out.TotalMemos != 2 || out.MemosThisMonth != 1 || out.BookmarkedMemos != 1 {
		t.Errorf("counts = %+v", out.Stats)
	}
	if out.ChecklistRate != 33 {
		t.Errorf("ChecklistRate = %d, want 33", out.ChecklistRate)
	}
	if out.Month != time.Now().Format("2006-01") {
		t.Errorf("Month = %q", out.Month)
	}
}
