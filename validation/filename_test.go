package validation

import (
	"errors"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{"plain", "photo.png", "photo.png", nil},
		{"spaces inside", "holiday photo.JPG", "holiday photo.JPG", nil},
		{"unicode", "føtø.jpeg", "føtø.jpeg", nil},
		{"unix directories stripped", "a/b/photo.png", "photo.png", nil},
		{"windows path stripped", `C:\Users\me\photo.png`, "photo.png", nil},
		{"traversal stripped", "../../etc/passwd.png", "passwd.png", nil},
		{"trailing slash", "photos/", "photos", nil},

		{"empty", "", "", ErrMissingFilename},
		{"whitespace", "   ", "", ErrMissingFilename},

		{"dot", ".", "", ErrInvalidFilename},
		{"dot dot", "..", "", ErrInvalidFilename},
		{"traversal only", "../..", "", ErrInvalidFilename},
		{"root", "/", "", ErrInvalidFilename},
		{"hidden file", ".htaccess", "", ErrInvalidFilename},
		{"nul byte", "photo\x00.png", "", ErrInvalidFilename},
		{"newline", "photo\n.png", "", ErrInvalidFilename},
		{"leading space", " photo.png", "", ErrInvalidFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFilename(tt.input)
			if !errors.Is(err, tt.err) {
				t.Fatalf("ValidateFilename(%q) error = %v, want %v", tt.input, err, tt.err)
			}
			if got != tt.expected {
				t.Errorf("ValidateFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
