// Package main provides the workbench CLI: four AI utilities behind one binary.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workbench",
	Short: "LLM workbench: cover letters, meeting minutes, website summaries, tutoring",
	Long:  "Workbench generates cover letters from resumes and job postings, meeting minutes from recordings, summaries of web pages, and answers to technical questions. Each command runs the same pipeline: ingest, extract, synthesize, present.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
