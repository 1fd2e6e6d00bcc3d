package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

const folderColumns = `id, name, color, position, builtin, created_at`

// ListFolders returns every folder in display order with its active memo count.
// The default folder counts all active memos.
func ListFolders(ctx context.Context, db *sql.DB) ([]memo.FolderWithCount, error) {
	query := `
		SELECT f.id, f.name, f.color, f.position, f.builtin, f.created_at,
			CASE WHEN f.id = ?
				THEN (SELECT COUNT(*) FROM memos WHERE deleted_at IS NULL)
				ELSE (SELECT COUNT(*) FROM memos m WHERE m.folder_id = f.id AND m.deleted_at IS NULL)
			END
		FROM folders f
		ORDER BY f.position ASC, f.created_at ASC, f.id ASC
	`

	rows, err := db.QueryContext(ctx, query, memo.FolderDefault)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var folders []memo.FolderWithCount
	for rows.Next() {
		var (
			fc      memo.FolderWithCount
			builtin int
		)
		if err := rows.Scan(&fc.ID, &fc.Name, &fc.Color, &fc.Position, &builtin, &fc.CreatedAt, &fc.MemoCount); err != nil {
			return nil, errors.NewInternal(err)
		}
		fc.Builtin = builtin != 0
		folders = append(folders, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return folders, nil
}

// GetFolder retrieves a folder by ID.
func GetFolder(ctx context.Context, db *sql.DB, id string) (*memo.Folder, error) {
	var (
		f       memo.Folder
		builtin int
	)
	err := db.QueryRowContext(ctx, `SELECT `+folderColumns+` FROM folders WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.Color, &f.Position, &builtin, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewFolderNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	f.Builtin = builtin != 0
	return &f, nil
}

// FolderExists reports whether a folder with the given ID exists.
func FolderExists(ctx context.Context, db *sql.DB, id string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders WHERE id = ?`, id).Scan(&n); err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// NextFolderPosition returns the position after the last folder.
func NextFolderPosition(ctx context.Context, db *sql.DB) (int, error) {
	var pos int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM folders`).Scan(&pos)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return pos, nil
}

// InsertFolder stores a new folder. Returns ErrUniqueConstraint when the
// normalized name is already taken.
func InsertFolder(ctx context.Context, db *sql.DB, f *memo.Folder) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO folders (id, name, name_norm, color, position, builtin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.Name, memo.Normalize(f.Name), f.Color, f.Position, boolToInt(f.Builtin), f.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// UpdateFolder writes a folder's name and color.
func UpdateFolder(ctx context.Context, db *sql.DB, f *memo.Folder) error {
	result, err := db.ExecContext(ctx,
		`UPDATE folders SET name = ?, name_norm = ?, color = ? WHERE id = ?`,
		f.Name, memo.Normalize(f.Name), f.Color, f.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewFolderNotFound(f.ID)
	}
	return nil
}

// DeleteFolder removes a folder and moves its memos (including soft-deleted
// ones) to the default folder. Returns the number of memos moved.
func DeleteFolder(ctx context.Context, db *sql.DB, id string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	moved, err := tx.ExecContext(ctx,
		`UPDATE memos SET folder_id = ? WHERE folder_id = ?`,
		memo.FolderDefault, id,
	)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	if n == 0 {
		return 0, errors.NewFolderNotFound(id)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewInternal(err)
	}

	count, err := moved.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(count), nil
}

// ReorderFolders sets each folder's position to its index in ids.
// Every ID must exist; otherwise nothing changes.
func ReorderFolders(ctx context.Context, db *sql.DB, ids []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, id := range ids {
		result, err := tx.ExecContext(ctx, `UPDATE folders SET position = ? WHERE id = ?`, i, id)
		if err != nil {
			return errors.NewInternal(err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return errors.NewInternal(err)
		}
		if n == 0 {
			return errors.NewFolderNotFound(id)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// UpsertFolderTx inserts or overwrites a folder inside a transaction.
// Built-in folders keep their name and builtin flag; only color and position
// are taken from f.
func UpsertFolderTx(ctx context.Context, tx *sql.Tx, f *memo.Folder) error {
	var builtin int
	err := tx.QueryRowContext(ctx, `SELECT builtin FROM folders WHERE id = ?`, f.ID).Scan(&builtin)
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO folders (id, name, name_norm, color, position, builtin, created_at)
			VALUES (?, ?, ?, ?, ?, 0, ?)
		`, f.ID, f.Name, memo.Normalize(f.Name), f.Color, f.Position, f.CreatedAt)
	case err != nil:
		return errors.NewInternal(err)
	case builtin != 0:
		_, err = tx.ExecContext(ctx,
			`UPDATE folders SET color = ?, position = ? WHERE id = ?`,
			f.Color, f.Position, f.ID,
		)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE folders SET name = ?, name_norm = ?, color = ?, position = ? WHERE id = ?`,
			f.Name, memo.Normalize(f.Name), f.Color, f.Position, f.ID,
		)
	}
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// FolderIDsTx returns the set of existing folder IDs inside a transaction.
func FolderIDsTx(ctx context.Context, tx *sql.Tx) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM folders`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewInternal(err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return ids, nil
}

// StreamFoldersForExport returns every folder in display order.
func StreamFoldersForExport(ctx context.Context, db *sql.DB) ([]memo.Folder, error) {
	folders, err := ListFolders(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]memo.Folder, len(folders))
	for i, fc := range folders {
		out[i] = fc.Folder
	}
	return out, nil
}
