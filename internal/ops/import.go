package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

// Import limits
const (
	MaxImportFileBytes = 64 << 20
	maxImportLineBytes = 4 << 20
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on any collision or bad line (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite memos with the same ID
	ImportModeNewID   ImportMode = "new_id"  // give colliding memos a fresh ID
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Folders  int           `json:"folders"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// importRecord is a parsed line with its line number.
type importRecord struct {
	line int
	memo.ExportRecord
}

// Import restores folders and memos from a JSONL export file.
// Folder records are upserted; built-in folders only take color and position.
// Memos whose folder does not exist land in the default folder.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeNewID {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, new_id")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openBackupFile(input.Path)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if info.Size() > MaxImportFileBytes {
		return nil, errors.NewFileTooLarge(MaxImportFileBytes, info.Size())
	}

	folders, memos, parseErrors := parseExportFile(file, cfg.MemoMaxChars)

	// For mode:error, fail on any parse errors
	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	out := &ImportOutput{
		Skipped: len(parseErrors),
		Errors:  parseErrors,
	}
	abort := func(ie ImportError) (*ImportOutput, error) {
		return &ImportOutput{Errors: []ImportError{ie}}, nil
	}

	for _, rec := range folders {
		f := rec.ToFolder()
		if err := db.UpsertFolderTx(ctx, tx, f); err != nil {
			if err != db.ErrUniqueConstraint {
				return nil, err
			}
			ie := ImportError{
				Line:    rec.line,
				ID:      f.ID,
				Name:    f.Name,
				Code:    "NAME_COLLISION",
				Message: fmt.Sprintf("folder named %q already exists", f.Name),
			}
			if input.Mode == ImportModeError {
				return abort(ie)
			}
			out.Errors = append(out.Errors, ie)
			out.Skipped++
			continue
		}
		out.Folders++
	}

	known, err := db.FolderIDsTx(ctx, tx)
	if err != nil {
		return nil, err
	}

	for _, rec := range memos {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("import")
		default:
		}

		m := rec.ToMemo()
		if !known[m.FolderID] {
			m.FolderID = memo.FolderDefault
		}

		exists, err := db.MemoExistsTx(ctx, tx, m.ID)
		if err != nil {
			return nil, err
		}

		switch {
		case !exists:
			err = db.InsertTx(ctx, tx, m)
		case input.Mode == ImportModeError:
			return abort(ImportError{
				Line:    rec.line,
				ID:      m.ID,
				Name:    m.Title,
				Code:    "ID_COLLISION",
				Message: fmt.Sprintf("memo with id %q already exists", m.ID),
			})
		case input.Mode == ImportModeReplace:
			err = db.UpdateFullTx(ctx, tx, m)
		default:
			if m.ID, err = generateULID(); err != nil {
				return nil, errors.NewInternal(err)
			}
			err = db.InsertTx(ctx, tx, m)
		}
		if err != nil {
			return nil, err
		}
		out.Imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return out, nil
}

// parseExportFile splits a JSONL export into folder and memo records,
// validating each line. The header line is skipped.
func parseExportFile(r io.Reader, maxChars int) (folders, memos []importRecord, parseErrors []ImportError) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxImportLineBytes)
	lineNum := 0
	now := time.Now().Unix()

	lineError := func(code, id, name, msg string) {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			ID:      id,
			Name:    name,
			Code:    code,
			Message: msg,
		})
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var rec importRecord
		if err := json.Unmarshal(line, &rec.ExportRecord); err != nil {
			lineError("PARSE_ERROR", "", "", fmt.Sprintf("invalid JSON: %v", err))
			continue
		}
		rec.line = lineNum

		// Skip header line
		if rec.JotExport {
			continue
		}

		if rec.ID == "" {
			lineError("INVALID_RECORD", "", "", "missing id field")
			continue
		}
		if rec.CreatedAt == 0 {
			rec.CreatedAt = now
		}

		switch rec.Kind {
		case memo.KindFolder:
			rec.Name = strings.TrimSpace(rec.Name)
			if rec.Name == "" {
				lineError("INVALID_RECORD", rec.ID, "", "folder name is required")
				continue
			}
			if !memo.ValidColor(rec.Color) {
				rec.Color = DefaultFolderColor
			}
			rec.Color = memo.NormalizeColor(rec.Color)
			folders = append(folders, rec)

		case memo.KindMemo, "":
			if strings.TrimSpace(rec.Title) == "" {
				lineError("INVALID_RECORD", rec.ID, "", "memo title is required")
				continue
			}
			if maxChars > 0 {
				if n := memo.CountChars(rec.Content); n > maxChars {
					lineError("MEMO_TOO_LARGE", rec.ID, rec.Title,
						fmt.Sprintf("content has %d characters, maximum is %d", n, maxChars))
					continue
				}
			}
			if rec.UpdatedAt == 0 {
				rec.UpdatedAt = rec.CreatedAt
			}
			memos = append(memos, rec)

		default:
			lineError("INVALID_RECORD", rec.ID, "", fmt.Sprintf("unknown kind %q", rec.Kind))
		}
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return folders, memos, parseErrors
}
