package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/docxport"
	"github.com/jonathan/llm-workbench/internal/ingestion"
	"github.com/jonathan/llm-workbench/internal/pipeline"
	"github.com/jonathan/llm-workbench/internal/render"
)

var (
	minConfigPath   string
	minAudio        string
	minTitle        string
	minParticipants string
	minOutputDir    string
	minDocx         bool
	minVerbose      bool
)

var minutesCmd = &cobra.Command{
	Use:   "minutes",
	Short: "Generate meeting minutes from an MP3 recording",
	Long:  `Transcribes a meeting recording, extracts participants, decisions and action items, and writes structured minutes in markdown. With --docx the minutes are also exported as a Word document.`,
	RunE:  runMinutes,
}

func init() {
	minutesCmd.Flags().StringVar(&minConfigPath, "config", "", "Path to config.json file")
	minutesCmd.Flags().StringVarP(&minAudio, "audio", "a", "", "Path to MP3 recording")
	minutesCmd.Flags().StringVarP(&minTitle, "title", "t", "", "Meeting title (otherwise inferred from the transcript)")
	minutesCmd.Flags().StringVar(&minParticipants, "participants", "", "Comma-separated participant names (otherwise inferred)")
	minutesCmd.Flags().StringVarP(&minOutputDir, "output", "o", "", "Directory to save the minutes to (prints to stdout when unset)")
	minutesCmd.Flags().BoolVar(&minDocx, "docx", false, "Also export the minutes as a .docx file (requires --output)")
	minutesCmd.Flags().BoolVarP(&minVerbose, "verbose", "v", false, "Print detailed progress information")

	_ = minutesCmd.MarkFlagRequired("audio")
	rootCmd.AddCommand(minutesCmd)
}

func runMinutes(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(config.Config{Verbose: minVerbose}, minConfigPath)
	if err != nil {
		return err
	}
	if minDocx && minOutputDir == "" {
		return fmt.Errorf("--docx requires --output")
	}

	p, closer, err := buildPipeline(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	audioData, err := os.ReadFile(minAudio)
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}
	req := pipeline.MinutesRequest{
		Audio: ingestion.RawInput{
			Kind: ingestion.KindAudio,
			Name: minAudio,
			Data: audioData,
		},
		Title: minTitle,
	}
	for _, name := range strings.Split(minParticipants, ",") {
		if name = strings.TrimSpace(name); name != "" {
			req.Participants = append(req.Participants, name)
		}
	}

	out, err := p.Minutes(ctx, req)
	if err != nil {
		return err
	}

	if minOutputDir == "" {
		fmt.Println(out.Display())
		return nil
	}

	path, err := render.SaveMarkdown(minOutputDir, "minutes", out.Result, out.Subject)
	if err != nil {
		return err
	}
	fmt.Printf("Minutes saved to %s\n", path)

	if minDocx {
		docxPath := filepath.Join(minOutputDir, render.TimestampedName("minutes", ".docx"))
		if err := docxport.Export(out.Result, docxPath); err != nil {
			return err
		}
		fmt.Printf("Minutes exported to %s\n", docxPath)
	}
	return nil
}
