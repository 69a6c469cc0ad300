package conf

// App-specific configuration structs & data.
// Must live in a package of its own so other packages within the app can depend on it without
// causing a circular dependency.

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"chimbori.dev/shrink/core"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

var AppName = "Shrink"

var BuildTimestamp string

const (
	defaultPort          = 9999
	defaultUploadsDir    = "uploads"
	defaultCompressedDir = "compressed"
	defaultMaxUploadSize = "64MiB"
)

type AppConfig struct {
	DataDir string `yaml:"-" json:"data-dir"` // The directory containing `shrink.yml`; relative paths resolve against it.
	Web     struct {
		Host string `yaml:"host" json:"host"`
		Port int    `yaml:"port" json:"port"`
	} `yaml:"web" json:"web"`
	Storage struct {
		Uploads    string `yaml:"uploads" json:"uploads"`
		Compressed string `yaml:"compressed" json:"compressed"`
	} `yaml:"storage" json:"storage"`
	Upload struct {
		MaxSize      string `yaml:"max-size" json:"max-size"`
		MaxSizeBytes int64  `yaml:"-" json:"max-size-bytes"`
	} `yaml:"upload" json:"upload"`
	Debug bool `yaml:"debug" json:"debug"`
}

// ReadConfig reads `shrink.yml` from the given path. A missing file is not an error: the app runs
// with defaults, storing files next to where the config file would have been.
func ReadConfig(configYmlFile string) (AppConfig, error) {
	if BuildTimestamp == "" {
		BuildTimestamp = time.Now().Local().Format("2006-01-02 15:04:05")
	}

	c := &AppConfig{}
	configYmlPath, err := filepath.Abs(configYmlFile)
	if err != nil {
		return *c, fmt.Errorf("Failed to get path to config file: %w", err)
	}
	c.DataDir = filepath.Dir(configYmlPath)

	exists, err := core.FileExists(configYmlPath)
	if err != nil {
		return *c, fmt.Errorf("Failed to stat config file: %w", err)
	}

	if exists {
		buf, err := os.ReadFile(configYmlPath)
		if err != nil {
			return *c, fmt.Errorf("Failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, c); err != nil {
			return *c, fmt.Errorf("Failed to parse config: %w", err)
		}
	} else {
		slog.Warn("Config file not found; using defaults", "path", configYmlPath)
	}

	if err := setDefaults(c); err != nil {
		return *c, err
	}
	printConfig(c)
	return *c, nil
}

func setDefaults(c *AppConfig) error {
	if c.Web.Host == "" {
		if ip := core.GetOutboundIP(); ip != nil {
			c.Web.Host = ip.String()
		} else {
			c.Web.Host = "localhost"
		}
	}
	if c.Web.Port == 0 {
		c.Web.Port = defaultPort
	}

	if c.Storage.Uploads == "" {
		c.Storage.Uploads = defaultUploadsDir
	}
	if c.Storage.Compressed == "" {
		c.Storage.Compressed = defaultCompressedDir
	}
	c.Storage.Uploads = resolve(c.DataDir, c.Storage.Uploads)
	c.Storage.Compressed = resolve(c.DataDir, c.Storage.Compressed)
	if c.Storage.Uploads == c.Storage.Compressed {
		return fmt.Errorf("storage.uploads & storage.compressed must be different directories: %s", c.Storage.Uploads)
	}

	if c.Upload.MaxSize == "" {
		c.Upload.MaxSize = defaultMaxUploadSize
	}
	maxSize, err := humanize.ParseBytes(c.Upload.MaxSize)
	if err != nil {
		return fmt.Errorf("Failed to parse upload.max-size %q: %w", c.Upload.MaxSize, err)
	}
	if maxSize == 0 {
		return fmt.Errorf("upload.max-size must be greater than zero")
	}
	c.Upload.MaxSizeBytes = int64(maxSize)
	return nil
}

// resolve makes a relative directory relative to the data directory.
func resolve(dataDir, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(dataDir, dir)
}

// printConfig shows the effective config, and warns about settings worth knowing about.
func printConfig(c *AppConfig) {
	json, _ := json.MarshalIndent(*c, "", "\t")
	fmt.Println(string(json))
	if c.Debug {
		slog.Warn("Debug mode is enabled")
	}
	slog.Info("Storage",
		"uploads", c.Storage.Uploads,
		"compressed", c.Storage.Compressed,
		"max-upload", humanize.IBytes(uint64(c.Upload.MaxSizeBytes)))
}
