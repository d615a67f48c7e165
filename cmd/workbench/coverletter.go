package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/ingestion"
	"github.com/jonathan/llm-workbench/internal/pipeline"
	"github.com/jonathan/llm-workbench/internal/render"
)

var (
	clConfigPath string
	clResume     string
	clJobFile    string
	clJobURL     string
	clOutputDir  string
	clUseBrowser bool
	clVerbose    bool
)

var coverLetterCmd = &cobra.Command{
	Use:   "coverletter",
	Short: "Generate a cover letter from a resume and a job posting",
	Long:  `Reads a resume (PDF, DOCX or plain text) and a job posting (text file or URL), extracts the relevant details from both, and writes a tailored cover letter in markdown.`,
	RunE:  runCoverLetter,
}

func init() {
	coverLetterCmd.Flags().StringVar(&clConfigPath, "config", "", "Path to config.json file")
	coverLetterCmd.Flags().StringVarP(&clResume, "resume", "r", "", "Path to resume file (PDF, DOCX or text)")
	coverLetterCmd.Flags().StringVarP(&clJobFile, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	coverLetterCmd.Flags().StringVar(&clJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	coverLetterCmd.Flags().StringVarP(&clOutputDir, "output", "o", "", "Directory to save the letter to (prints to stdout when unset)")
	coverLetterCmd.Flags().BoolVar(&clUseBrowser, "use-browser", false, "Use headless browser for script-rendered job pages (requires Chrome)")
	coverLetterCmd.Flags().BoolVarP(&clVerbose, "verbose", "v", false, "Print detailed progress information")

	_ = coverLetterCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(coverLetterCmd)
}

func runCoverLetter(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(config.Config{UseBrowser: clUseBrowser, Verbose: clVerbose}, clConfigPath)
	if err != nil {
		return err
	}
	if clJobFile == "" && clJobURL == "" {
		return fmt.Errorf("one of --job or --job-url is required")
	}
	if clJobFile != "" && clJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive")
	}

	p, closer, err := buildPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	resumeData, err := os.ReadFile(clResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	req := pipeline.CoverLetterRequest{
		Resume: ingestion.RawInput{
			Kind: ingestion.DetectKind(clResume),
			Name: clResume,
			Data: resumeData,
		},
		JobURL: clJobURL,
	}
	if clJobFile != "" {
		jobData, err := os.ReadFile(clJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting: %w", err)
		}
		req.JobText = string(jobData)
	}

	out, err := p.CoverLetter(ctx, req)
	if err != nil {
		return err
	}

	if clOutputDir != "" {
		path, err := render.SaveMarkdown(clOutputDir, "cover_letter", out.Result, out.Subject)
		if err != nil {
			return err
		}
		fmt.Printf("Cover letter saved to %s\n", path)
		return nil
	}
	fmt.Println(out.Display())
	return nil
}
