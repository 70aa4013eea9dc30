package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pratham/resumeats/internal/extraction"
	"github.com/pratham/resumeats/internal/fetch"
	"github.com/pratham/resumeats/internal/observability"
	"github.com/pratham/resumeats/internal/scoring"
)

var (
	scoreResumePath string
	scoreJobPath    string
	scoreJobURL     string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume locally without the API server",
	Long: `Run the heuristic ATS scoring on a resume file (PDF, DOCX, or plain text)
and print the breakdown. Supply a job description to include keyword matching.
No database or API key is needed.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumePath, "resume", "r", "", "Path to resume file (required)")
	scoreCmd.Flags().StringVarP(&scoreJobPath, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	scoreCmd.Flags().StringVar(&scoreJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	_ = scoreCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if scoreJobPath != "" && scoreJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive")
	}

	data, err := os.ReadFile(scoreResumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	resumeText, err := extraction.Text(scoreResumePath, data)
	if err != nil {
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	var jobDescription string
	switch {
	case scoreJobPath != "":
		job, err := os.ReadFile(scoreJobPath)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(job)
	case scoreJobURL != "":
		jobDescription, err = fetch.JobDescription(cmd.Context(), scoreJobURL)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
	}

	withJob := jobDescription != ""
	breakdown := scoring.Score(resumeText, jobDescription)

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintBreakdown(breakdown, withJob)
	printer.PrintComponents(scoring.NormalizedComponents(breakdown, withJob))

	return nil
}
