package validation

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathHandler resolves the on-disk locations slyde writes to.
type PathHandler struct {
	validator *FilePathValidator
}

func NewSecurePathHandler() *PathHandler {
	return &PathHandler{validator: NewFilePathValidator()}
}

func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{validator: NewPermissiveFilePathValidator()}
}

func defaultDataPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".slyde", name), nil
}

// DBPath validates the bookmark database file and creates its parent directory.
func (ph *PathHandler) DBPath(userPath string) (string, error) {
	if userPath == "" {
		p, err := defaultDataPath("slyde.db")
		if err != nil {
			return "", err
		}
		userPath = p
	}

	path, err := ph.validator.ValidateFile(userPath)
	if err != nil {
		return "", err
	}
	if err := ph.ensureParent(path); err != nil {
		return "", err
	}
	return path, nil
}

// IndexPath validates the bleve index directory. Bleve creates the
// directory itself, so only the parent is made here.
func (ph *PathHandler) IndexPath(userPath string) (string, error) {
	if userPath == "" {
		p, err := defaultDataPath("index.bleve")
		if err != nil {
			return "", err
		}
		userPath = p
	}

	path, err := ph.validator.ValidateDirectory(userPath, false)
	if err != nil {
		return "", err
	}
	if err := ph.ensureParent(path); err != nil {
		return "", err
	}
	return path, nil
}

// EnsureDirectory validates and creates a directory.
func (ph *PathHandler) EnsureDirectory(path string) (string, error) {
	return ph.validator.ValidateDirectory(path, true)
}

func (ph *PathHandler) ensureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	return nil
}
