// Package main provides the entry point for the resume ATS scoring service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumeats",
	Short: "Resume ATS compatibility scoring service",
	Long:  "resumeats scores resumes against applicant tracking system heuristics, optionally matched to a job description, and serves AI-generated improvement feedback over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
