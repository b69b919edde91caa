package tags

import (
	"context"
	"fmt"
	"log"

	"smartmr/internal/gitlab"
)

// LabelService is the slice of the host API the applier needs.
type LabelService interface {
	ListLabels(ctx context.Context) ([]gitlab.Label, error)
	CreateLabel(ctx context.Context, label gitlab.Label) error
	SetMergeRequestLabels(ctx context.Context, mrIID string, labels []string) error
}

// Applier performs idempotent create-or-reuse of labels and applies the
// final set to a merge request. Known label names are cached so
// repeated EnsureLabel calls cost at most one creation request.
type Applier struct {
	service LabelService
	known   map[string]bool
}

func NewApplier(service LabelService) *Applier {
	return &Applier{service: service}
}

// EnsureLabel creates the label if the project does not have it yet.
// Creating an existing label is a no-op, never an error.
func (a *Applier) EnsureLabel(ctx context.Context, name, color string) error {
	if a.known == nil {
		if err := a.loadKnown(ctx); err != nil {
			return err
		}
	}

	if a.known[name] {
		return nil
	}

	err := a.service.CreateLabel(ctx, gitlab.Label{
		Name:        name,
		Color:       color,
		Description: "Auto-generated label by smartmr",
	})
	if err != nil {
		// A concurrent creation can race us; the label exists either
		// way.
		if apiErr, ok := err.(*gitlab.APIError); ok && apiErr.StatusCode == 409 {
			a.known[name] = true
			return nil
		}
		return fmt.Errorf("failed to create label %s: %w", name, err)
	}

	a.known[name] = true
	return nil
}

// Apply ensures each tag's label exists and then overwrites the MR's
// label set with whatever subset could be ensured. Creation failures
// degrade to "label not applied" and the applied subset is returned so
// callers can report the real outcome.
func (a *Applier) Apply(ctx context.Context, mrIID string, tagList []string) ([]string, error) {
	var applied []string
	for _, tag := range tagList {
		if err := a.EnsureLabel(ctx, tag, ColorFor(tag)); err != nil {
			log.Printf("Skipping label %s: %v", tag, err)
			continue
		}
		applied = append(applied, tag)
	}

	if len(applied) == 0 {
		return nil, nil
	}

	if err := a.service.SetMergeRequestLabels(ctx, mrIID, applied); err != nil {
		return nil, fmt.Errorf("failed to apply labels: %w", err)
	}

	return applied, nil
}

func (a *Applier) loadKnown(ctx context.Context) error {
	labels, err := a.service.ListLabels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list labels: %w", err)
	}

	a.known = make(map[string]bool, len(labels))
	for _, label := range labels {
		a.known[label.Name] = true
	}
	return nil
}
