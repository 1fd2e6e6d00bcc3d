//go:build windows

package ops

import (
	"os"

	"github.com/hpungsan/jot/internal/errors"
)

// Windows has no O_NOFOLLOW; ValidatePath has already rejected symlinks.

// createBackupFile opens the temporary export file for writing.
func createBackupFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
}

// openBackupFile opens an import file for reading.
func openBackupFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.NewFileNotFound(path)
	}
	return f, err
}
