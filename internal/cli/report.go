package cli

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"smartmr/internal/artifact"
	"smartmr/internal/config"
	"smartmr/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the HTML review report from stored artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fatal(err)
		}
		return runReport(cfg)
	},
}

func runReport(cfg config.Config) error {
	store := artifact.NewStore(cfg.ArtifactDir)

	status, err := store.ReadStatus()
	if err != nil {
		return fmt.Errorf("review artifacts not found, run the review stage first: %w", err)
	}
	results, err := store.ReadResults()
	if err != nil {
		return fmt.Errorf("review artifacts not found, run the review stage first: %w", err)
	}
	findings, err := store.ReadFindings()
	if err != nil {
		log.Printf("No security findings artifact: %v", err)
	}

	html, err := report.RenderHTML(status, results, findings)
	if err != nil {
		return err
	}
	if err := store.WriteReport(html); err != nil {
		return err
	}

	log.Printf("Wrote %s", filepath.Join(cfg.ArtifactDir, artifact.ReportFile))
	return nil
}
