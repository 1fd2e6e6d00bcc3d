package ops

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/memo"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// DataDirName is the directory under $HOME holding the database, config and exports.
const DataDirName = ".jot"

// DateLayout is the accepted format for user-supplied memo dates.
const DateLayout = "2006-01-02"

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// newPagination clamps limit and offset to their bounds.
func newPagination(limit, offset int) Pagination {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return Pagination{Limit: limit, Offset: max(offset, 0)}
}

// finish fills Total and HasMore once the page is known.
func (p Pagination) finish(pageLen, total int) Pagination {
	p.Total = total
	p.HasMore = p.Offset+pageLen < total
	return p
}

// DefaultDataDir returns ~/.jot.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, DataDirName), nil
}

// requireID trims id and rejects empty values.
func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// checkContent enforces the content size limit.
func checkContent(content string, maxChars int) error {
	if maxChars <= 0 {
		return nil
	}
	if n := memo.CountChars(content); n > maxChars {
		return errors.NewMemoTooLarge(maxChars, n)
	}
	return nil
}

// parseDate turns "YYYY-MM-DD" into a Unix timestamp on that day, keeping the
// time-of-day of now. Empty input returns now.
func parseDate(date string, now time.Time) (int64, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return now.Unix(), nil
	}
	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("date must be %s", DateLayout))
	}
	t := time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, now.Location())
	return t.Unix(), nil
}

// monthStart returns the first instant of now's month.
func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
