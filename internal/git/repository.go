package git

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var (
	ErrNotARepository = errors.New("not a git repository")
	ErrGitNotFound    = errors.New("git command not found")
)

// Repository is a detected git working copy.
type Repository struct {
	Path   string
	GitDir string
}

// DetectRepository walks upward from startPath until it finds a .git
// directory.
func DetectRepository(startPath string) (*Repository, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if _, err := exec.LookPath("git"); err != nil {
		return nil, ErrGitNotFound
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if fi, err := os.Stat(gitDir); err == nil && fi.IsDir() {
			return &Repository{Path: current, GitDir: gitDir}, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return nil, ErrNotARepository
}

// IsRepository reports whether path is inside a git working copy.
func IsRepository(path string) bool {
	repo, err := DetectRepository(path)
	return err == nil && repo != nil
}
