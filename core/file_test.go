package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "shrink.yml")
	if err := os.WriteFile(file, []byte("debug: true\n"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"regular file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "missing.yml"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := FileExists(tt.path)
			if err != nil {
				t.Fatalf("FileExists(%q) error = %v", tt.path, err)
			}
			if exists != tt.expected {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, exists, tt.expected)
			}
		})
	}
}
