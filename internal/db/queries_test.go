package db

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

// newTestMemo creates a memo with default values for testing.
func newTestMemo(id, title, content string) *memo.Memo {
	now := time.Now().Unix()
	return &memo.Memo{
		ID:           id,
		Title:        title,
		Content:      content,
		ContentChars: memo.CountChars(content),
		FolderID:     memo.FolderDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustInsert(t *testing.T, db *sql.DB, m *memo.Memo) {
	t.Helper()
	if err := Insert(context.Background(), db, m); err != nil {
		t.Fatalf("Insert(%s) failed: %v", m.ID, err)
	}
}

func TestInsertAndGetByID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	m := newTestMemo("01ABC123", "장보기", "우유 사기")
	m.FolderID = memo.FolderPersonal
	m.Checklist = []memo.ChecklistItem{{ID: "c1", Text: "우유", Checked: true}, {ID: "c2", Text: "빵"}}
	m.Links = []memo.Link{{ID: "l1", URL: "https://example.com", Title: "example"}}
	m.Images = []memo.Image{{ID: "i1", URI: "file:///tmp/a.png"}}
	m.Bookmarked = true

	mustInsert(t, db, m)

	retrieved, err := GetByID(ctx, db, "01ABC123", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if retrieved.Title != m.Title {
		t.Errorf("Title = %q, want %q", retrieved.Title, m.Title)
	}
	if retrieved.Content != m.Content {
		t.Errorf("Content = %q, want %q", retrieved.Content, m.Content)
	}
	if retrieved.FolderID != memo.FolderPersonal {
		t.Errorf("FolderID = %q, want personal", retrieved.FolderID)
	}
	if len(retrieved.Checklist) != 2 || !retrieved.Checklist[0].Checked || retrieved.Checklist[1].Text != "빵" {
		t.Errorf("Checklist = %+v", retrieved.Checklist)
	}
	if len(retrieved.Links) != 1 || retrieved.Links[0].URL != "https://example.com" {
		t.Errorf("Links = %+v", retrieved.Links)
	}
	if len(retrieved.Images) != 1 || retrieved.Images[0].URI != "file:///tmp/a.png" {
		t.Errorf("Images = %+v", retrieved.Images)
	}
	if !retrieved.Bookmarked {
		t.Error("Bookmarked = false, want true")
	}
	if retrieved.DeletedAt != nil {
		t.Errorf("DeletedAt = %v, want nil", retrieved.DeletedAt)
	}
}

func TestInsert_EmptyLists(t *testing.T) {
	db := openTestDB(t)

	mustInsert(t, db, newTestMemo("01A", "t", "c"))

	var checklist sql.NullString
	if err := db.QueryRow("SELECT checklist_json FROM memos WHERE id = ?", "01A").Scan(&checklist); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if checklist.Valid {
		t.Errorf("checklist_json = %q, want NULL", checklist.String)
	}

	got, err := GetByID(context.Background(), db, "01A", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Checklist != nil {
		t.Errorf("Checklist = %v, want nil", got.Checklist)
	}
}

func TestInsert_UniqueConstraint(t *testing.T) {
	db := openTestDB(t)

	mustInsert(t, db, newTestMemo("01DUP", "a", "a"))
	err := Insert(context.Background(), db, newTestMemo("01DUP", "b", "b"))
	if err != ErrUniqueConstraint {
		t.Errorf("err = %v, want ErrUniqueConstraint", err)
	}
}

func TestInsert_UnknownFolder(t *testing.T) {
	db := openTestDB(t)

	m := newTestMemo("01FK", "a", "a")
	m.FolderID = "nope"
	err := Insert(context.Background(), db, m)
	if !errors.Is(err, errors.ErrInternal) {
		t.Errorf("err = %v, want INTERNAL (foreign key)", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetByID(context.Background(), db, "nonexistent", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestUpdateByID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	m := newTestMemo("01UPD", "before", "old")
	m.UpdatedAt = 1
	mustInsert(t, db, m)

	m.Title = "after"
	m.Content = "new content"
	m.ContentChars = memo.CountChars(m.Content)
	m.FolderID = memo.FolderWork
	if err := UpdateByID(ctx, db, m); err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}
	if m.UpdatedAt == 1 {
		t.Error("UpdatedAt was not refreshed on the struct")
	}

	got, err := GetByID(ctx, db, "01UPD", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "after" || got.Content != "new content" || got.FolderID != memo.FolderWork {
		t.Errorf("got %+v", got)
	}
	if got.ContentChars != 11 {
		t.Errorf("ContentChars = %d, want 11", got.ContentChars)
	}
}

func TestUpdateByID_NotFound(t *testing.T) {
	db := openTestDB(t)

	err := UpdateByID(context.Background(), db, newTestMemo("missing", "t", "c"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestSoftDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustInsert(t, db, newTestMemo("01DEL", "t", "c"))

	if err := SoftDelete(ctx, db, "01DEL"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	if _, err := GetByID(ctx, db, "01DEL", false); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID(active) err = %v, want NOT_FOUND", err)
	}

	got, err := GetByID(ctx, db, "01DEL", true)
	if err != nil {
		t.Fatalf("GetByID(includeDeleted) failed: %v", err)
	}
	if got.DeletedAt == nil {
		t.Error("DeletedAt = nil, want timestamp")
	}

	// Second delete finds nothing active
	if err := SoftDelete(ctx, db, "01DEL"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second SoftDelete err = %v, want NOT_FOUND", err)
	}
}

func TestSetBookmarked(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	m := newTestMemo("01BM", "t", "c")
	m.UpdatedAt = 42
	mustInsert(t, db, m)

	if err := SetBookmarked(ctx, db, "01BM", true); err != nil {
		t.Fatalf("SetBookmarked failed: %v", err)
	}
	got, _ := GetByID(ctx, db, "01BM", false)
	if !got.Bookmarked {
		t.Error("Bookmarked = false, want true")
	}
	if got.UpdatedAt != 42 {
		t.Errorf("UpdatedAt = %d, want 42 (unchanged)", got.UpdatedAt)
	}

	if err := SetBookmarked(ctx, db, "missing", true); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestPurgeDeleted(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustInsert(t, db, newTestMemo("01KEEP", "t", "c"))
	mustInsert(t, db, newTestMemo("01OLD", "t", "c"))
	mustInsert(t, db, newTestMemo("01NEW", "t", "c"))

	old := time.Now().Unix() - 10*86400
	if _, err := db.Exec("UPDATE memos SET deleted_at = ? WHERE id = ?", old, "01OLD"); err != nil {
		t.Fatal(err)
	}
	if err := SoftDelete(ctx, db, "01NEW"); err != nil {
		t.Fatal(err)
	}

	days := 7
	n, err := PurgeDeleted(ctx, db, &days)
	if err != nil {
		t.Fatalf("PurgeDeleted failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}

	n, err = PurgeDeleted(ctx, db, nil)
	if err != nil {
		t.Fatalf("PurgeDeleted failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}

	if _, err := GetByID(ctx, db, "01KEEP", false); err != nil {
		t.Errorf("active memo was purged: %v", err)
	}
}

func TestList_OrderAndFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i, folder := range []string{memo.FolderDefault, memo.FolderWork, memo.FolderWork, memo.FolderPersonal} {
		m := newTestMemo(fmt.Sprintf("01M%d", i), fmt.Sprintf("memo %d", i), "c")
		m.FolderID = folder
		m.CreatedAt = int64(1000 + i)
		m.Bookmarked = i%2 == 1
		mustInsert(t, db, m)
	}

	all, total, err := List(ctx, db, ListFilters{}, 10, 0, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 4 || len(all) != 4 {
		t.Fatalf("total = %d, len = %d, want 4", total, len(all))
	}
	if all[0].ID != "01M3" || all[3].ID != "01M0" {
		t.Errorf("order = %s..%s, want newest first", all[0].ID, all[3].ID)
	}

	// default folder lists everything
	_, total, _ = List(ctx, db, ListFilters{FolderID: memo.FolderDefault}, 10, 0, false)
	if total != 4 {
		t.Errorf("default folder total = %d, want 4", total)
	}

	work, total, _ := List(ctx, db, ListFilters{FolderID: memo.FolderWork}, 10, 0, false)
	if total != 2 || len(work) != 2 {
		t.Errorf("work total = %d, want 2", total)
	}

	_, total, _ = List(ctx, db, ListFilters{BookmarkedOnly: true}, 10, 0, false)
	if total != 2 {
		t.Errorf("bookmarked total = %d, want 2", total)
	}

	_, total, _ = List(ctx, db, ListFilters{CreatedFrom: 1001, CreatedTo: 1003}, 10, 0, false)
	if total != 2 {
		t.Errorf("date range total = %d, want 2", total)
	}
}

func TestList_Pagination(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		m := newTestMemo(fmt.Sprintf("01P%d", i), "t", "c")
		m.CreatedAt = int64(100 + i)
		mustInsert(t, db, m)
	}

	page, total, err := List(ctx, db, ListFilters{}, 2, 2, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0].ID != "01P2" || page[1].ID != "01P1" {
		t.Errorf("page = %+v", page)
	}
}

func TestList_IncludeDeleted(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustInsert(t, db, newTestMemo("01A", "t", "c"))
	mustInsert(t, db, newTestMemo("01B", "t", "c"))
	if err := SoftDelete(ctx, db, "01B"); err != nil {
		t.Fatal(err)
	}

	_, total, _ := List(ctx, db, ListFilters{}, 10, 0, false)
	if total != 1 {
		t.Errorf("active total = %d, want 1", total)
	}
	_, total, _ = List(ctx, db, ListFilters{}, 10, 0, true)
	if total != 2 {
		t.Errorf("all total = %d, want 2", total)
	}
}

func TestSearch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustInsert(t, db, newTestMemo("01S1", "Go Notes", "channels and goroutines"))
	mustInsert(t, db, newTestMemo("01S2", "회의록", "ÜBER wichtig 100% 완료"))
	mustInsert(t, db, newTestMemo("01S3", "other", "nothing here"))

	tests := []struct {
		query string
		want  int
	}{
		{"go", 1},
		{"GOROUTINES", 1},
		{"über", 1},
		{"회의", 1},
		{"100%", 1},
		{"_", 0},
		{"zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, total, err := Search(ctx, db, tt.query, ListFilters{}, 10, 0)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if total != tt.want {
				t.Errorf("Search(%q) total = %d, want %d", tt.query, total, tt.want)
			}
		})
	}
}

func TestSearch_ExcludesDeleted(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustInsert(t, db, newTestMemo("01X", "needle", "c"))
	if err := SoftDelete(ctx, db, "01X"); err != nil {
		t.Fatal(err)
	}

	_, total, err := Search(ctx, db, "needle", ListFilters{}, 10, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestStreamForExport(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := newTestMemo("01A", "t", "c")
	a.CreatedAt = 2
	b := newTestMemo("01B", "t", "c")
	b.CreatedAt = 1
	mustInsert(t, db, a)
	mustInsert(t, db, b)

	rows, err := StreamForExport(ctx, db, false)
	if err != nil {
		t.Fatalf("StreamForExport failed: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		m, err := ScanMemoFromRows(rows)
		if err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		ids = append(ids, m.ID)
	}
	if len(ids) != 2 || ids[0] != "01B" {
		t.Errorf("ids = %v, want oldest first", ids)
	}
}

func TestUpdateFullTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustInsert(t, db, newTestMemo("01F", "t", "c"))

	tx, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}
	exists, err := MemoExistsTx(ctx, tx, "01F")
	if err != nil || !exists {
		t.Fatalf("MemoExistsTx = %v, %v", exists, err)
	}
	deleted := int64(5)
	m := newTestMemo("01F", "replaced", "body")
	m.CreatedAt, m.UpdatedAt, m.DeletedAt = 1, 2, &deleted
	if err := UpdateFullTx(ctx, tx, m); err != nil {
		t.Fatalf("UpdateFullTx failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	got, err := GetByID(ctx, db, "01F", true)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "replaced" || got.UpdatedAt != 2 || got.DeletedAt == nil || *got.DeletedAt != 5 {
		t.Errorf("got %+v", got)
	}
}
