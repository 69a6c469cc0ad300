package validation

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

var (
	ErrMissingFilename = errors.New("missing filename")
	ErrInvalidFilename = errors.New("invalid filename")
)

// ValidateFilename reduces a user-supplied filename to a single, safe path element.
// Directory components are stripped (“../../etc/passwd.png” becomes “passwd.png”); whatever remains must be
// a plain, visible name, or [ErrInvalidFilename] is returned.
func ValidateFilename(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrMissingFilename
	}

	// Browsers on Windows may send the full client-side path.
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	if name == "." || name == ".." || name == "/" || strings.HasPrefix(name, ".") {
		return "", ErrInvalidFilename
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", ErrInvalidFilename
		}
	}
	if strings.TrimSpace(name) != name {
		return "", ErrInvalidFilename
	}
	return name, nil
}
