package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratham/resumeats/internal/config"
	"github.com/pratham/resumeats/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing registration, login, resume analysis, follow-up chat, and feedback endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT env var or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	srv, err := server.New(cmd.Context(), server.Config{
		Port:        cfg.Port,
		DatabaseURL: cfg.DatabaseURL,
		GeminiKey:   cfg.GeminiKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
