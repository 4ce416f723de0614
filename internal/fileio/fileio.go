// Package fileio persists generated files. Writes go through a pending file
// that is fsynced and renamed over the target, so readers never observe a
// partially written configuration.
package fileio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// FilePerm is the mode of generated files.
const FilePerm fs.FileMode = 0o644

// WriteAtomic replaces path with data, creating parent directories.
func WriteAtomic(path string, data []byte) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(FilePerm))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		if cleanupErr := pending.Cleanup(); cleanupErr != nil && err == nil {
			err = fmt.Errorf("cleanup pending file: %w", cleanupErr)
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

// ReadIfExists returns the file content and whether the file was present. A
// missing file is not an error.
func ReadIfExists(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
