package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shrink.yml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestReadConfig_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shrink.yml") // Not created.

	c, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	dataDir := filepath.Dir(path)
	if c.DataDir != dataDir {
		t.Errorf("Expected DataDir %s, got %s", dataDir, c.DataDir)
	}
	if c.Web.Port != 9999 {
		t.Errorf("Expected default port 9999, got %d", c.Web.Port)
	}
	if c.Web.Host == "" {
		t.Error("Expected a default host")
	}
	if c.Storage.Uploads != filepath.Join(dataDir, "uploads") {
		t.Errorf("Expected uploads dir under data dir, got %s", c.Storage.Uploads)
	}
	if c.Storage.Compressed != filepath.Join(dataDir, "compressed") {
		t.Errorf("Expected compressed dir under data dir, got %s", c.Storage.Compressed)
	}
	if c.Upload.MaxSizeBytes != 64*1024*1024 {
		t.Errorf("Expected default max upload size of 64 MiB, got %d", c.Upload.MaxSizeBytes)
	}
	if c.Debug {
		t.Error("Expected debug to be off by default")
	}
	if BuildTimestamp == "" {
		t.Error("Expected BuildTimestamp to be set")
	}
}

func TestReadConfig_Overrides(t *testing.T) {
	absCompressed := filepath.Join(t.TempDir(), "webp")
	path := writeConfig(t, `
web:
  host: example.test
  port: 8080
storage:
  uploads: originals
  compressed: `+absCompressed+`
upload:
  max-size: 10MB
debug: true
`)

	c, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if c.Web.Host != "example.test" || c.Web.Port != 8080 {
		t.Errorf("Expected example.test:8080, got %s:%d", c.Web.Host, c.Web.Port)
	}
	if c.Storage.Uploads != filepath.Join(filepath.Dir(path), "originals") {
		t.Errorf("Expected relative uploads dir to resolve against the config file, got %s", c.Storage.Uploads)
	}
	if c.Storage.Compressed != absCompressed {
		t.Errorf("Expected absolute compressed dir to be kept, got %s", c.Storage.Compressed)
	}
	if c.Upload.MaxSizeBytes != 10*1000*1000 {
		t.Errorf("Expected 10 MB, got %d", c.Upload.MaxSizeBytes)
	}
	if !c.Debug {
		t.Error("Expected debug to be on")
	}
}

func TestReadConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		errPart  string
	}{
		{"malformed yaml", "web: [unterminated", "Failed to parse config"},
		{"bad max size", "upload:\n  max-size: lots\n", "upload.max-size"},
		{"zero max size", "upload:\n  max-size: 0B\n", "greater than zero"},
		{"same directories", "storage:\n  uploads: files\n  compressed: files\n", "different directories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, tt.contents))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}
