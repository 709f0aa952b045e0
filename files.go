package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  os.FileMode = 0o700
	filePerm os.FileMode = 0o600
)

var (
	ErrInaccessiblePath        = errors.New("inaccessible path")
	ErrCannotCreateDirectories = errors.New("cannot create directories")
)

// ensureDir creates dir and its parents unless it already exists as a directory.
func ensureDir(fs afero.Fs, dir string) error {
	info, err := fs.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return ErrInaccessiblePath
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return ErrInaccessiblePath
	}
	if err := fs.MkdirAll(dir, dirPerm); err != nil {
		return errors.Join(ErrCannotCreateDirectories, err)
	}
	return nil
}

// fileExists reports whether path exists and is not a directory.
func fileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}

func readFile(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w %s: %w", ErrNotFound, path, err)
	case err != nil:
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	return data, nil
}

// writeFile replaces the contents of path. The parent directory must exist.
// The write is not atomic.
func writeFile(fs afero.Fs, path string, data []byte) error {
	if err := afero.WriteFile(fs, path, data, filePerm); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return nil
}

// removeFile deletes path. A missing file is not an error; neither is a
// directory at path, which is left alone.
func removeFile(fs afero.Fs, path string) error {
	if !fileExists(fs, path) {
		return nil
	}
	if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w %s: %w", ErrDelete, path, err)
	}
	return nil
}

// removeDir deletes dir with everything below it. A missing directory is not an error.
func removeDir(fs afero.Fs, dir string) error {
	ok, err := afero.DirExists(fs, dir)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrDelete, dir, err)
	}
	if !ok {
		return nil
	}
	if err := fs.RemoveAll(filepath.Clean(dir)); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDelete, dir, err)
	}
	return nil
}
