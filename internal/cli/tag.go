package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"smartmr/internal/artifact"
	"smartmr/internal/config"
	"smartmr/internal/gitlab"
	"smartmr/internal/review"
	"smartmr/internal/tags"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Apply review-derived labels to the merge request",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fatal(err)
		}
		return runTag(cmd.Context(), cfg)
	},
}

func runTag(ctx context.Context, cfg config.Config) error {
	if err := cfg.ValidateTag(); err != nil {
		return fatal(err)
	}

	store := artifact.NewStore(cfg.ArtifactDir)

	status, err := store.ReadStatus()
	if err != nil {
		return fmt.Errorf("review artifacts not found, run the review stage first: %w", err)
	}

	// The tag list artifact is optional; tagging still works from the
	// aggregate status alone.
	tagList, err := store.ReadTags()
	if err != nil {
		log.Printf("No tag list artifact, deriving tags from status only: %v", err)
	}

	client := gitlab.NewClient(cfg.GitLab.ServerURL, cfg.GitLab.Token, cfg.GitLab.ProjectID)

	if category := classifyMergeRequest(ctx, client, cfg.GitLab.MergeRequestIID, store); category != review.CategoryOther {
		tagList = append(tagList, string(category))
	}
	tagList = tags.Enhance(tagList, status)

	log.Printf("Applying %d tag(s) to merge request !%s", len(tagList), cfg.GitLab.MergeRequestIID)

	applier := tags.NewApplier(client)

	applied, applyErr := applier.Apply(ctx, cfg.GitLab.MergeRequestIID, tagList)

	writeErr := store.WriteApplied(artifact.Applied{
		AppliedTags:   applied,
		Success:       applyErr == nil,
		ReviewSummary: status,
	})
	if writeErr != nil {
		log.Printf("Could not write applied tags artifact: %v", writeErr)
	}

	// Publication failures never fail the stage; the applied artifact
	// records the real outcome for downstream consumers.
	if applyErr != nil {
		log.Printf("Could not apply labels: %v", applyErr)
		return nil
	}

	log.Printf("Applied tags: %v", applied)
	return nil
}

// classifyMergeRequest assigns the change category from MR metadata and
// the reviewed file paths. Metadata fetch failure just skips the
// category tag.
func classifyMergeRequest(ctx context.Context, client *gitlab.Client, mrIID string, store *artifact.Store) review.Category {
	mr, err := client.GetMergeRequest(ctx, mrIID)
	if err != nil {
		log.Printf("Could not fetch merge request metadata: %v", err)
		return review.CategoryOther
	}

	info := review.MergeInfo{
		Labels: mr.Labels,
		Title:  mr.Title,
	}
	if results, err := store.ReadResults(); err == nil {
		for _, result := range results {
			info.FilesChanged = append(info.FilesChanged, result.File)
		}
	}

	return review.Categorize(info)
}
