// Package changeset discovers the files under review for one merge
// request and turns them into immutable FileChange values.
package changeset

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"smartmr/internal/git"
	"smartmr/internal/review"
)

// DefaultMaxFileSize bounds the content length of a reviewable file.
const DefaultMaxFileSize = 50000

// DefaultIgnorePatterns are glob-style path prefixes excluded from
// review unless the config overrides them.
var DefaultIgnorePatterns = []string{".git/*", "node_modules/*", "*.min.js", "*.bundle.js"}

// codeExtensions is the allowlist of recognized source extensions.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".go": true, ".rs": true, ".cpp": true, ".c": true,
	".h": true, ".cs": true, ".php": true, ".rb": true, ".swift": true,
	".kt": true,
}

// Reader lists changed files from a repository and applies the
// configured filters, in order: ignore patterns, size limit, extension
// allowlist. A file failing any filter is silently excluded.
type Reader struct {
	repo           *git.Repository
	maxFileSize    int64
	ignorePatterns []*regexp.Regexp
}

func NewReader(repo *git.Repository, maxFileSize int64, ignorePatterns []string) *Reader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if ignorePatterns == nil {
		ignorePatterns = DefaultIgnorePatterns
	}

	compiled := make([]*regexp.Regexp, 0, len(ignorePatterns))
	for _, pattern := range ignorePatterns {
		re, err := compileGlob(pattern)
		if err != nil {
			log.Printf("Skipping invalid ignore pattern %q: %v", pattern, err)
			continue
		}
		compiled = append(compiled, re)
	}

	return &Reader{
		repo:           repo,
		maxFileSize:    maxFileSize,
		ignorePatterns: compiled,
	}
}

// ListChanges returns one FileChange per reviewable changed file,
// relative to targetRef (previous commit when targetRef is empty).
// A diff failure for an individual file is non-fatal: the file stays in
// the set with an empty diff and the pipeline reports it per-file.
func (r *Reader) ListChanges(ctx context.Context, targetRef string) ([]review.FileChange, error) {
	paths, err := r.repo.ChangedPaths(ctx, targetRef)
	if err != nil {
		return nil, err
	}

	var changes []review.FileChange
	for _, path := range paths {
		if !r.shouldReview(path) {
			continue
		}

		change := review.FileChange{Path: path}

		if info, err := os.Stat(filepath.Join(r.repo.Path, path)); err == nil {
			change.Size = info.Size()
		}

		if content, err := r.repo.WorkingTreeContent(path); err == nil {
			change.Content = string(content)
		} else {
			log.Printf("Could not read %s: %v", path, err)
		}

		diff, err := r.repo.Diff(ctx, targetRef, path)
		if err != nil {
			log.Printf("Could not diff %s: %v", path, err)
		} else {
			change.Diff = diff
		}

		changes = append(changes, change)
	}

	return changes, nil
}

// shouldReview applies the three filters in their fixed order.
func (r *Reader) shouldReview(path string) bool {
	for _, pattern := range r.ignorePatterns {
		if pattern.MatchString(path) {
			return false
		}
	}

	fullPath := filepath.Join(r.repo.Path, path)
	info, err := os.Stat(fullPath)
	if err != nil {
		// Deleted in this change set; nothing to review.
		return false
	}
	if info.Size() > r.maxFileSize {
		return false
	}

	return codeExtensions[strings.ToLower(filepath.Ext(path))]
}

// compileGlob converts a glob-style ignore pattern to an anchored
// prefix regexp, with * matching any run of characters.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	expr := strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*")
	return regexp.Compile("^" + expr)
}
