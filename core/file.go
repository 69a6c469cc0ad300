package core

import (
	"errors"
	"io/fs"
	"os"
)

// FileExists checks if a file exists and is not a directory.
func FileExists(filename string) (bool, error) {
	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
