package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"smartmr/internal/artifact"
	"smartmr/internal/changeset"
	"smartmr/internal/config"
	"smartmr/internal/git"
	"smartmr/internal/gitlab"
	"smartmr/internal/report"
	"smartmr/internal/review"
	"smartmr/internal/scan"
	"smartmr/internal/tags"
	"smartmr/pkg/reviewer"
)

var (
	reviewTargetFlag      string
	reviewSummaryOnlyFlag bool
	reviewNoColorFlag     bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review changed files and write result artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fatal(err)
		}
		return runReview(cmd.Context(), cfg)
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewTargetFlag, "target", "",
		"Target branch to diff against (defaults to CI_MERGE_REQUEST_TARGET_BRANCH_NAME)")
	reviewCmd.Flags().BoolVar(&reviewSummaryOnlyFlag, "summary-only", false,
		"Print only the aggregate summary, not per-file details")
	reviewCmd.Flags().BoolVar(&reviewNoColorFlag, "no-color", false,
		"Disable colored terminal output")
}

func runReview(ctx context.Context, cfg config.Config) error {
	if err := cfg.ValidateReview(); err != nil {
		return fatal(err)
	}

	targetRef := cfg.GitLab.TargetBranch
	if reviewTargetFlag != "" {
		targetRef = reviewTargetFlag
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	repo, err := git.DetectRepository(cwd)
	if err != nil {
		return fatal(fmt.Errorf("not a git repository: %w", err))
	}
	log.Printf("Found git repository at: %s", repo.Path)

	reader := changeset.NewReader(repo, cfg.Review.MaxFileSize, cfg.Review.IgnorePatterns)
	changes, err := reader.ListChanges(ctx, targetRef)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}

	store := artifact.NewStore(cfg.ArtifactDir)

	if len(changes) == 0 {
		log.Println("No files found to review")
		return writeEmptyArtifacts(store)
	}
	log.Printf("Found %d file(s) to review", len(changes))

	rev, err := reviewer.New(cfg.AI)
	if err != nil {
		return fatal(err)
	}
	log.Printf("Using reviewer: %s", rev.Name())

	pipeline, err := review.NewPipeline(rev)
	if err != nil {
		return err
	}

	results, err := pipeline.Run(ctx, changes)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	status := review.Aggregate(results)
	findings := review.Findings(results)
	tagList := tags.Derive(changes, results)

	if err := writeReviewArtifacts(store, status, results, findings, tagList); err != nil {
		return err
	}

	report.WriteConsole(os.Stdout, status, results, report.ConsoleConfig{
		Color:       !reviewNoColorFlag,
		SummaryOnly: reviewSummaryOnlyFlag,
	})

	usage := rev.GetUsage()
	log.Printf("AI usage: %d requests, %d tokens, %v total duration",
		usage.TotalRequests, usage.TotalTokens, usage.TotalDuration)

	// Comment posting is best-effort: a host outage must not discard the
	// review work already persisted as artifacts.
	if cfg.CanPublish() {
		client := gitlab.NewClient(cfg.GitLab.ServerURL, cfg.GitLab.Token, cfg.GitLab.ProjectID)
		comment := report.SummaryComment(status, results)
		if err := client.PostNote(ctx, cfg.GitLab.MergeRequestIID, comment); err != nil {
			log.Printf("Could not post summary comment: %v", err)
		} else {
			log.Println("Posted review summary comment")
		}
	} else {
		log.Println("GitLab credentials not set, skipping summary comment")
	}

	return nil
}

func writeReviewArtifacts(store *artifact.Store, status review.Status, results []review.Result, findings []scan.Finding, tagList []string) error {
	if err := store.WriteResults(results); err != nil {
		return err
	}
	if err := store.WriteFindings(findings); err != nil {
		return err
	}
	if err := store.WriteStatus(status); err != nil {
		return err
	}
	return store.WriteTags(tagList)
}

// writeEmptyArtifacts keeps downstream stages working when a merge
// request touches no reviewable files.
func writeEmptyArtifacts(store *artifact.Store) error {
	status := review.Status{OverallStatus: review.StatusApproved}
	return writeReviewArtifacts(store, status, []review.Result{}, nil, nil)
}
