// Package cli defines the smartmr commands. Each command is one
// pipeline stage so CI jobs can run them as separate invocations with
// artifacts carrying state between them.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "smartmr",
	Short:         "AI-assisted merge request review for GitLab",
	Long:          "smartmr reviews merge request changes with an AI provider,\nscans them for common security issues, and publishes the results\nback to GitLab as comments and labels.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(reportCmd)
}

// fatalError marks configuration problems that make the requested stage
// impossible; they exit with code 2 so CI can tell them apart from
// review findings.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

func fatal(err error) error {
	return &fatalError{err: err}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var fe *fatalError
		if errors.As(err, &fe) {
			return 2
		}
		return 1
	}
	return 0
}
