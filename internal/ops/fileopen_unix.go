//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/hpungsan/jot/internal/errors"
)

// Backup files are opened with O_NOFOLLOW so a symlink planted at the final
// path component is refused. Directory components are covered by
// ValidatePath, which only accepts files directly inside an allowed directory.
const noFollowFlags = syscall.O_NOFOLLOW | syscall.O_CLOEXEC

// createBackupFile opens the temporary export file for writing.
func createBackupFile(path string) (*os.File, error) {
	fd, err := syscall.Open(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|noFollowFlags, 0o600)
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("export path is a symlink")
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// openBackupFile opens an import file for reading.
func openBackupFile(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_RDONLY|noFollowFlags, 0)
	switch {
	case err == nil:
		return os.NewFile(uintptr(fd), path), nil
	case stderrors.Is(err, syscall.ELOOP):
		return nil, errors.NewInvalidRequest("import path is a symlink")
	case stderrors.Is(err, syscall.ENOENT):
		return nil, errors.NewFileNotFound(path)
	}
	return nil, err
}
