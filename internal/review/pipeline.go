package review

import (
	"context"
	"errors"
	"log"

	"smartmr/internal/scan"
)

// Error strings recorded on degraded results. These cross the artifact
// boundary, so downstream stages may match on them.
const (
	ErrMsgUnreadable  = "Could not read file"
	ErrMsgNoDiff      = "No changes detected"
	ErrMsgParseFailed = "Failed to parse AI response"
)

// Pipeline runs the per-file review sequence: heuristic scan, external
// AI review, validation. Files are processed one at a time in discovery
// order; a failure for one file never stops the rest.
type Pipeline struct {
	reviewer Reviewer
}

func NewPipeline(reviewer Reviewer) (*Pipeline, error) {
	if reviewer == nil {
		return nil, errors.New("reviewer cannot be nil")
	}
	return &Pipeline{reviewer: reviewer}, nil
}

// Run reviews every change and returns one Result per change, in input
// order. The only errors surfaced to the caller are context
// cancellation; everything else degrades into the per-file Result.
func (p *Pipeline) Run(ctx context.Context, changes []FileChange) ([]Result, error) {
	results := make([]Result, 0, len(changes))

	for _, change := range changes {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		log.Printf("Reviewing: %s", change.Path)
		results = append(results, p.reviewFile(ctx, change))
	}

	return results, nil
}

func (p *Pipeline) reviewFile(ctx context.Context, change FileChange) Result {
	if change.Content == "" && change.Size > 0 {
		return Result{File: change.Path, Error: ErrMsgUnreadable}
	}

	if change.Diff == "" {
		return Result{File: change.Path, Error: ErrMsgNoDiff}
	}

	// Heuristic findings attach to the result whether or not the AI
	// call succeeds.
	findings := scan.Scan(change.Path, change.Content)

	raw, err := p.reviewer.ReviewChange(ctx, change)
	if err != nil {
		log.Printf("Review failed for %s: %v", change.Path, err)
		return Result{File: change.Path, Error: err.Error(), SecurityIssues: findings}
	}

	validation := Validate(raw)
	if !validation.Valid() {
		log.Printf("Failed to parse AI response for %s: %s", change.Path, validation.Reason)
		return Result{
			File:           change.Path,
			Error:          ErrMsgParseFailed,
			RawResponse:    validation.Raw,
			SecurityIssues: findings,
		}
	}

	result := *validation.Result
	result.File = change.Path
	result.SecurityIssues = findings
	return result
}
