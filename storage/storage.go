// Package storage keeps originals & converted files in two flat directories.
// All access goes through [os.Root], so no filename can reach outside its directory.
package storage

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// EnsureDirs creates each directory, including any missing parents. Existing directories are left alone.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

type Store struct {
	uploads    *os.Root
	compressed *os.Root
}

// Open ensures both directories exist, and opens them for use.
func Open(uploadsDir, compressedDir string) (*Store, error) {
	if err := EnsureDirs(uploadsDir, compressedDir); err != nil {
		return nil, err
	}

	uploads, err := os.OpenRoot(uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open uploads directory: %w", err)
	}
	compressed, err := os.OpenRoot(compressedDir)
	if err != nil {
		uploads.Close()
		return nil, fmt.Errorf("failed to open compressed directory: %w", err)
	}

	slog.Debug("storage opened", "uploads", uploads.Name(), "compressed", compressed.Name())
	return &Store{uploads: uploads, compressed: compressed}, nil
}

func (s *Store) Close() error {
	return errors.Join(s.uploads.Close(), s.compressed.Close())
}

// SaveOriginal writes an upload under the given name, replacing any earlier file with that name.
// Returns the number of bytes written, which is the stored file’s size.
func (s *Store) SaveOriginal(name string, r io.Reader) (int64, error) {
	return write(s.uploads, name, r)
}

// OpenOriginal opens a stored original for reading.
func (s *Store) OpenOriginal(name string) (*os.File, error) {
	return s.uploads.Open(name)
}

// WriteConverted produces a converted file through encode, then renames it into place.
// The bytes go to a hidden temporary name first, so a failed encode leaves any earlier file untouched.
// Returns the size of the committed file.
func (s *Store) WriteConverted(name string, encode func(io.Writer) error) (int64, error) {
	tmp := "." + name + "." + strings.ToLower(rand.Text()[:8]) + ".tmp"
	f, err := s.compressed.Create(tmp)
	if err != nil {
		return 0, err
	}

	if err := encodeAndSync(f, encode); err != nil {
		s.discard(tmp)
		return 0, err
	}
	info, err := s.compressed.Stat(tmp)
	if err != nil {
		s.discard(tmp)
		return 0, err
	}
	if err := s.compressed.Rename(tmp, name); err != nil {
		s.discard(tmp)
		return 0, err
	}
	return info.Size(), nil
}

func encodeAndSync(f *os.File, encode func(io.Writer) error) error {
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// discard removes a temporary file left by a failed write.
func (s *Store) discard(tmp string) {
	if err := s.compressed.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove temporary file", "name", tmp, tint.Err(err))
	}
}

// RemoveOriginal deletes a stored original; used to undo a save that failed halfway.
func (s *Store) RemoveOriginal(name string) error {
	return s.uploads.Remove(name)
}

// Originals is a read-only view of the uploads directory.
func (s *Store) Originals() fs.FS {
	return s.uploads.FS()
}

// Converted is a read-only view of the compressed directory.
func (s *Store) Converted() fs.FS {
	return s.compressed.FS()
}

func write(root *os.Root, name string, r io.Reader) (int64, error) {
	f, err := root.Create(name)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return n, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}
