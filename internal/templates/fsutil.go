package templates

import (
	"errors"
	"io/fs"
	"path/filepath"
)

func joinLayoutPath(dir, file string) string {
	return filepath.Join(dir, file)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
