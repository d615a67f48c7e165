package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/docxport"
	"github.com/jonathan/llm-workbench/internal/ingestion"
	"github.com/jonathan/llm-workbench/internal/pipeline"
	"github.com/jonathan/llm-workbench/internal/render"
	"github.com/jonathan/llm-workbench/internal/watch"
)

var (
	watchConfigPath string
	watchDir        string
	watchOutputDir  string
	watchDocx       bool
	watchWorkers    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a folder and generate minutes for every dropped recording",
	Long:  `Monitors a drop folder for new MP3 recordings. Each one is transcribed and turned into meeting minutes, saved next to the recording or into --output.`,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "", "Path to config.json file")
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "Drop folder to monitor")
	watchCmd.Flags().StringVarP(&watchOutputDir, "output", "o", "", "Directory to save minutes to (defaults to the drop folder)")
	watchCmd.Flags().BoolVar(&watchDocx, "docx", false, "Also export each set of minutes as a .docx file")
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 2, "Recordings processed concurrently")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := resolveConfig(config.Config{WatchDir: watchDir}, watchConfigPath)
	if err != nil {
		return err
	}
	if watchDir == "" {
		watchDir = cfg.WatchDir
	}
	if watchDir == "" {
		return fmt.Errorf("a drop folder is required: set --dir or watch_dir in the config file")
	}
	outDir := watchOutputDir
	if outDir == "" {
		outDir = watchDir
	}

	p, closer, err := buildPipeline(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	handler := func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read recording: %w", err)
		}
		out, err := p.Minutes(ctx, pipeline.MinutesRequest{
			Audio: ingestion.RawInput{Kind: ingestion.KindAudio, Name: path, Data: data},
		})
		if err != nil {
			return err
		}
		saved, err := render.SaveMarkdown(outDir, baseName(path), out.Result, out.Subject)
		if err != nil {
			return err
		}
		fmt.Printf("Minutes saved to %s\n", saved)
		if watchDocx {
			docxPath := filepath.Join(outDir, render.TimestampedName(baseName(path), ".docx"))
			if err := docxport.Export(out.Result, docxPath); err != nil {
				return err
			}
			fmt.Printf("Minutes exported to %s\n", docxPath)
		}
		return nil
	}

	w, err := watch.New(watchDir, handler, watchWorkers)
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
