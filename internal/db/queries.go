package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.JotError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// memoColumns is the column list shared by every memo SELECT.
const memoColumns = `id, title, content, content_chars, folder_id,
	checklist_json, links_json, images_json, bookmarked,
	created_at, updated_at, deleted_at`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Insert stores a new memo in the database.
func Insert(ctx context.Context, db *sql.DB, m *memo.Memo) error {
	return insertMemo(ctx, db, m)
}

// InsertTx stores a memo within a transaction. deleted_at is preserved.
func InsertTx(ctx context.Context, tx *sql.Tx, m *memo.Memo) error {
	return insertMemo(ctx, tx, m)
}

func insertMemo(ctx context.Context, ex execer, m *memo.Memo) error {
	checklist, links, images, err := encodeAttachments(m)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO memos (
			id, title, content, content_chars, folder_id,
			checklist_json, links_json, images_json, bookmarked,
			created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = ex.ExecContext(ctx, query,
		m.ID, m.Title, m.Content, m.ContentChars, m.FolderID,
		checklist, links, images, boolToInt(m.Bookmarked),
		m.CreatedAt, m.UpdatedAt, toNullInt64(m.DeletedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves a memo by its ULID.
// If includeDeleted is false, soft-deleted memos are excluded.
func GetByID(ctx context.Context, db *sql.DB, id string, includeDeleted bool) (*memo.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM memos WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	m, err := scanMemo(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return m, nil
}

// UpdateByID replaces the mutable fields of an active memo and sets
// updated_at to the current time. CreatedAt is written as given so the memo
// date can be moved.
func UpdateByID(ctx context.Context, db *sql.DB, m *memo.Memo) error {
	checklist, links, images, err := encodeAttachments(m)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()

	query := `
		UPDATE memos
		SET title = ?, content = ?, content_chars = ?, folder_id = ?,
			checklist_json = ?, links_json = ?, images_json = ?, bookmarked = ?,
			created_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.ExecContext(ctx, query,
		m.Title, m.Content, m.ContentChars, m.FolderID,
		checklist, links, images, boolToInt(m.Bookmarked),
		m.CreatedAt, now,
		m.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	if err := requireAffected(result, m.ID); err != nil {
		return err
	}

	m.UpdatedAt = now
	return nil
}

// UpdateFull overwrites every column of an existing memo (active or deleted)
// including timestamps. Used by import in replace mode.
func UpdateFull(ctx context.Context, db *sql.DB, m *memo.Memo) error {
	return updateFull(ctx, db, m)
}

// UpdateFullTx is UpdateFull within a transaction.
func UpdateFullTx(ctx context.Context, tx *sql.Tx, m *memo.Memo) error {
	return updateFull(ctx, tx, m)
}

func updateFull(ctx context.Context, ex execer, m *memo.Memo) error {
	checklist, links, images, err := encodeAttachments(m)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		UPDATE memos
		SET title = ?, content = ?, content_chars = ?, folder_id = ?,
			checklist_json = ?, links_json = ?, images_json = ?, bookmarked = ?,
			created_at = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?
	`

	result, err := ex.ExecContext(ctx, query,
		m.Title, m.Content, m.ContentChars, m.FolderID,
		checklist, links, images, boolToInt(m.Bookmarked),
		m.CreatedAt, m.UpdatedAt, toNullInt64(m.DeletedAt),
		m.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return requireAffected(result, m.ID)
}

// MemoExistsTx reports whether a memo with the given ID exists, including
// soft-deleted memos.
func MemoExistsTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM memos WHERE id = ?`, id).Scan(&n); err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// SetBookmarked sets the bookmark flag on an active memo.
// updated_at is left unchanged; bookmarking is not an edit.
func SetBookmarked(ctx context.Context, db *sql.DB, id string, bookmarked bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE memos SET bookmarked = ? WHERE id = ? AND deleted_at IS NULL`,
		boolToInt(bookmarked), id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireAffected(result, id)
}

// SoftDelete marks a memo as deleted by setting deleted_at.
func SoftDelete(ctx context.Context, db *sql.DB, id string) error {
	now := time.Now().Unix()

	result, err := db.ExecContext(ctx,
		`UPDATE memos SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return requireAffected(result, id)
}

// PurgeDeleted permanently removes soft-deleted memos.
// If olderThanDays is set, only memos deleted more than N days ago are removed.
func PurgeDeleted(ctx context.Context, db *sql.DB, olderThanDays *int) (int, error) {
	query := `DELETE FROM memos WHERE deleted_at IS NOT NULL`
	var args []any

	if olderThanDays != nil {
		cutoff := time.Now().Unix() - int64(*olderThanDays)*86400
		query += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(count), nil
}

// MaxSearchQueryChars bounds the length of a search query.
const MaxSearchQueryChars = 200

// ListFilters narrows List and Search results.
type ListFilters struct {
	// FolderID restricts to one folder. Empty or "default" means all memos.
	FolderID string

	// BookmarkedOnly keeps bookmarked memos only.
	BookmarkedOnly bool

	// CreatedFrom and CreatedTo bound created_at (inclusive, exclusive); 0 means unbounded.
	CreatedFrom int64
	CreatedTo   int64
}

// where builds the filter clause and its arguments.
func (f ListFilters) where(includeDeleted bool) (string, []any) {
	var clauses []string
	var args []any

	if !includeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if f.FolderID != "" && f.FolderID != memo.FolderDefault {
		clauses = append(clauses, "folder_id = ?")
		args = append(args, f.FolderID)
	}
	if f.BookmarkedOnly {
		clauses = append(clauses, "bookmarked = 1")
	}
	if f.CreatedFrom > 0 {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.CreatedFrom)
	}
	if f.CreatedTo > 0 {
		clauses = append(clauses, "created_at < ?")
		args = append(args, f.CreatedTo)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns memo summaries, newest memo date first, with the total count.
func List(ctx context.Context, db *sql.DB, filters ListFilters, limit, offset int, includeDeleted bool) ([]memo.MemoSummary, int, error) {
	where, args := filters.where(includeDeleted)
	memos, total, err := queryMemos(ctx, db, where, args, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var summaries []memo.MemoSummary
	for _, m := range memos {
		summaries = append(summaries, m.ToSummary())
	}
	return summaries, total, nil
}

// Search returns memos whose title or content contains query, compared
// case-insensitively, newest memo date first. Full memos are returned so the
// caller can build match snippets.
func Search(ctx context.Context, db *sql.DB, query string, filters ListFilters, limit, offset int) ([]*memo.Memo, int, error) {
	where, args := filters.where(false)
	match := "(instr(" + casefoldFunc + "(title), ?) > 0 OR instr(" + casefoldFunc + "(content), ?) > 0)"
	if where == "" {
		where = " WHERE " + match
	} else {
		where += " AND " + match
	}
	folded := strings.ToLower(query)
	args = append(args, folded, folded)

	return queryMemos(ctx, db, where, args, limit, offset)
}

func queryMemos(ctx context.Context, db *sql.DB, where string, args []any, limit, offset int) ([]*memo.Memo, int, error) {
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memos"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := "SELECT " + memoColumns + " FROM memos" + where +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var memos []*memo.Memo
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		memos = append(memos, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return memos, total, nil
}

// StreamForExport returns rows of every memo for export, oldest first.
// The caller must close the rows and scan them with ScanMemoFromRows.
func StreamForExport(ctx context.Context, db *sql.DB, includeDeleted bool) (*sql.Rows, error) {
	query := "SELECT " + memoColumns + " FROM memos"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// ScanMemoFromRows scans the current row of a StreamForExport result.
func ScanMemoFromRows(rows *sql.Rows) (*memo.Memo, error) {
	return scanMemo(rows)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMemo scans a single row into a Memo struct.
func scanMemo(row rowScanner) (*memo.Memo, error) {
	var (
		m          memo.Memo
		checklist  sql.NullString
		links      sql.NullString
		images     sql.NullString
		bookmarked int
		deletedAt  sql.NullInt64
	)

	err := row.Scan(
		&m.ID, &m.Title, &m.Content, &m.ContentChars, &m.FolderID,
		&checklist, &links, &images, &bookmarked,
		&m.CreatedAt, &m.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Bookmarked = bookmarked != 0
	if deletedAt.Valid {
		m.DeletedAt = &deletedAt.Int64
	}

	if err := decodeJSON(checklist, &m.Checklist); err != nil {
		return nil, err
	}
	if err := decodeJSON(links, &m.Links); err != nil {
		return nil, err
	}
	if err := decodeJSON(images, &m.Images); err != nil {
		return nil, err
	}

	return &m, nil
}

// encodeAttachments serializes the list columns; empty lists are stored as NULL.
func encodeAttachments(m *memo.Memo) (checklist, links, images sql.NullString, err error) {
	if checklist, err = encodeJSON(len(m.Checklist), m.Checklist); err != nil {
		return
	}
	if links, err = encodeJSON(len(m.Links), m.Links); err != nil {
		return
	}
	images, err = encodeJSON(len(m.Images), m.Images)
	return
}

func encodeJSON(n int, v any) (sql.NullString, error) {
	if n == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeJSON(ns sql.NullString, v any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), v)
}

// requireAffected returns NotFound when no row was changed.
func requireAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// toNullInt64 converts an *int64 to sql.NullInt64.
func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
