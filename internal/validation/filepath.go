package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsafePath = errors.New("unsafe path")

// FilePathValidator checks local paths used for the bookmark database,
// the search index and log files.
type FilePathValidator struct {
	// AllowedBaseDirs restricts paths to these directories. Empty allows all.
	AllowedBaseDirs    []string
	AllowHomeExpansion bool
	MaxPathLength      int
}

// NewFilePathValidator creates a new validator with secure defaults
func NewFilePathValidator() *FilePathValidator {
	homeDir, _ := os.UserHomeDir()
	return &FilePathValidator{
		AllowedBaseDirs: []string{
			filepath.Join(homeDir, ".slyde"),
			filepath.Join(homeDir, ".config", "slyde"),
			os.TempDir(),
		},
		AllowHomeExpansion: true,
		MaxPathLength:      4096,
	}
}

// NewPermissiveFilePathValidator accepts any directory.
func NewPermissiveFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowHomeExpansion: true,
		MaxPathLength:      4096,
	}
}

// ValidateAndSanitize expands ~, rejects control characters and traversal
// and returns a clean absolute path.
func (v *FilePathValidator) ValidateAndSanitize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrUnsafePath)
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("%w: path too long (max %d characters)", ErrUnsafePath, v.MaxPathLength)
	}

	for _, r := range path {
		if r == 0 {
			return "", fmt.Errorf("%w: path contains null bytes", ErrUnsafePath)
		}
		if r < 32 && r != '\t' {
			return "", fmt.Errorf("%w: path contains control characters", ErrUnsafePath)
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return "", fmt.Errorf("%w: directory traversal not allowed", ErrUnsafePath)
		}
	}

	if strings.HasPrefix(path, "~") {
		if !v.AllowHomeExpansion || !strings.HasPrefix(path, "~/") {
			return "", fmt.Errorf("%w: invalid tilde usage", ErrUnsafePath)
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}

	if err := v.checkBaseDirs(abs); err != nil {
		return "", err
	}

	return abs, nil
}

func (v *FilePathValidator) checkBaseDirs(abs string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}

	for _, base := range v.AllowedBaseDirs {
		absBase, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBase, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}

	return fmt.Errorf("%w: path not within allowed directories: %v", ErrUnsafePath, v.AllowedBaseDirs)
}

// ValidateDirectory validates a directory path, creating it when asked.
func (v *FilePathValidator) ValidateDirectory(path string, create bool) (string, error) {
	validated, err := v.ValidateAndSanitize(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(validated)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", fmt.Errorf("path exists but is not a directory: %s", validated)
		}
	case os.IsNotExist(err):
		if create {
			if mkErr := os.MkdirAll(validated, 0o755); mkErr != nil {
				return "", fmt.Errorf("failed to create directory: %w", mkErr)
			}
		}
	default:
		return "", fmt.Errorf("checking directory: %w", err)
	}

	return validated, nil
}

// ValidateFile validates a file path. An existing directory at that path is rejected.
func (v *FilePathValidator) ValidateFile(path string) (string, error) {
	validated, err := v.ValidateAndSanitize(path)
	if err != nil {
		return "", err
	}

	if info, statErr := os.Stat(validated); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", validated)
	}

	return validated, nil
}
