// Package filestore manages on-disk placement of uploaded and generated
// images under a single history root. Paths it hands out are always relative
// to that root; the database stores them as-is.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store writes and removes image files under the history root.
type Store struct {
	root   string
	logger *zap.Logger
}

// New creates a store rooted at root, creating the directory if needed.
func New(root string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history root %s: %w", root, err)
	}
	return &Store{root: root, logger: logger}, nil
}

// Root returns the history root directory.
func (s *Store) Root() string {
	return s.root
}

// NewToken returns a fresh correlation token: a wall-clock prefix so a human
// can line up a session's files by eye, plus a random suffix so two requests
// in the same second never collide.
func (s *Store) NewToken() string {
	return time.Now().Format("20060102_150405") + "_" + uuid.New().String()[:8]
}

// StoreUpload writes raw input image bytes under the history root and returns
// the path relative to it. The kind is recorded for debugging only; input
// files are named uniformly so generated outputs correlate by token.
func (s *Store) StoreUpload(data []byte, kind, token string) (string, error) {
	name := fmt.Sprintf("input_%s.jpg", token)
	if err := s.write(name, data); err != nil {
		return "", err
	}
	s.logger.Debug("stored uploaded image",
		zap.String("path", name),
		zap.String("kind", kind))
	return name, nil
}

// StoreGenerated writes one rendered outfit image, named with the occasion and
// the token it shares with the triggering upload.
func (s *Store) StoreGenerated(data []byte, occasion, token string) (string, error) {
	name := fmt.Sprintf("output_%s_%s.jpg", occasion, token)
	if err := s.write(name, data); err != nil {
		return "", err
	}
	s.logger.Debug("stored generated image",
		zap.String("path", name),
		zap.String("occasion", occasion))
	return name, nil
}

func (s *Store) write(name string, data []byte) error {
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return nil
}

// Delete removes a file if present and reports whether it was removed.
// Missing files are not an error; failures are logged, never returned.
func (s *Store) Delete(relPath string) bool {
	if relPath == "" {
		return false
	}

	path := filepath.Join(s.root, filepath.Clean(relPath))
	err := os.Remove(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to delete image file",
				zap.String("path", path),
				zap.Error(err))
		}
		return false
	}
	return true
}

// ClearAll removes every file under the history root and recreates an empty
// root. Irreversible.
func (s *Store) ClearAll() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to clear history root %s: %w", s.root, err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to recreate history root %s: %w", s.root, err)
	}
	return nil
}

// Resolve returns the absolute path of a stored file.
func (s *Store) Resolve(relPath string) string {
	return filepath.Join(s.root, filepath.Clean(relPath))
}

// Exists reports whether a stored file still resolves to a regular file.
func (s *Store) Exists(relPath string) bool {
	info, err := os.Stat(s.Resolve(relPath))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
