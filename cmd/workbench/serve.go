package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/pipeline"
	"github.com/jonathan/llm-workbench/internal/server"
	"github.com/jonathan/llm-workbench/internal/server/ratelimit"
)

var (
	serveConfigPath string
	servePort       int
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing the four utilities as REST endpoints, with SSE progress streams for long runs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	// Default stays zero so a port from config.json is not shadowed;
	// runServe falls back to 8080 after the merge.
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Use headless browser for script-rendered pages (requires Chrome)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(config.Config{Port: servePort, UseBrowser: serveUseBrowser}, serveConfigPath)
	if err != nil {
		return err
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	// Transcription is optional for the server: minutes endpoints report a
	// configuration error per request when it is absent.
	needsAudio := cfg.TranscribeKey != ""
	p, closer, err := buildPipeline(ctx, cfg, needsAudio)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	srv := server.New(server.Config{
		Port: cfg.Port,
		NewRunner: func(cb pipeline.ProgressCallback) server.Runner {
			if cb == nil {
				return p
			}
			return p.WithProgressCallback(cb)
		},
		RateLimit: ratelimit.DefaultConfig(),
	})
	return srv.Start()
}
