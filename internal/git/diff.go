package git

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ChangedPaths lists the files changed relative to targetRef (merge
// request flow: origin/<target>...HEAD). When targetRef is empty the
// comparison falls back to the previous commit, matching a push to a
// branch with no known merge target.
func (r *Repository) ChangedPaths(ctx context.Context, targetRef string) ([]string, error) {
	output, err := r.runDiff(ctx, targetRef, "", true)
	if err != nil {
		return nil, err
	}

	var paths []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		path := strings.TrimSpace(scanner.Text())
		if path != "" {
			paths = append(paths, path)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse diff output: %w", err)
	}

	return paths, nil
}

// Diff returns the unified diff for a single file against targetRef.
func (r *Repository) Diff(ctx context.Context, targetRef, path string) (string, error) {
	return r.runDiff(ctx, targetRef, path, false)
}

func (r *Repository) runDiff(ctx context.Context, targetRef, path string, nameOnly bool) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}

	if targetRef != "" {
		args = append(args, fmt.Sprintf("origin/%s...HEAD", targetRef))
	} else {
		args = append(args, "HEAD~1", "HEAD")
	}

	if nameOnly {
		args = append(args, "--name-only")
	}

	if path != "" {
		args = append(args, "--", path)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Path

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git diff failed: %s", exitErr.Stderr)
		}
		return "", fmt.Errorf("git diff failed: %w", err)
	}

	return string(output), nil
}

// WorkingTreeContent reads a changed file from the working tree.
func (r *Repository) WorkingTreeContent(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(r.Path, path))
}
