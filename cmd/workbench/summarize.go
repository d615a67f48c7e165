package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/pipeline"
	"github.com/jonathan/llm-workbench/internal/render"
)

var (
	sumConfigPath string
	sumURL        string
	sumOutputDir  string
	sumUseBrowser bool
	sumVerbose    bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a web page",
	Long:  `Fetches a web page, strips it down to its readable text, and writes a short markdown summary with the page's key points.`,
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&sumConfigPath, "config", "", "Path to config.json file")
	summarizeCmd.Flags().StringVarP(&sumURL, "url", "u", "", "URL of the page to summarize")
	summarizeCmd.Flags().StringVarP(&sumOutputDir, "output", "o", "", "Directory to save the summary to (prints to stdout when unset)")
	summarizeCmd.Flags().BoolVar(&sumUseBrowser, "use-browser", false, "Use headless browser for script-rendered pages (requires Chrome)")
	summarizeCmd.Flags().BoolVarP(&sumVerbose, "verbose", "v", false, "Print detailed progress information")

	_ = summarizeCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(config.Config{UseBrowser: sumUseBrowser, Verbose: sumVerbose}, sumConfigPath)
	if err != nil {
		return err
	}

	p, closer, err := buildPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	out, err := p.Summarize(ctx, pipeline.SummarizeRequest{URL: sumURL})
	if err != nil {
		return err
	}

	if sumOutputDir != "" {
		path, err := render.SaveMarkdown(sumOutputDir, "summary", out.Result, out.Subject)
		if err != nil {
			return err
		}
		fmt.Printf("Summary saved to %s\n", path)
		return nil
	}
	fmt.Println(out.Display())
	return nil
}
