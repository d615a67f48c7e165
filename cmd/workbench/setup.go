package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/llm"
	"github.com/jonathan/llm-workbench/internal/pipeline"
	"github.com/jonathan/llm-workbench/internal/transcribe"
)

// resolveConfig merges config file values with environment variables and
// validates the result. Flag values already set on cfg win.
func resolveConfig(cfg config.Config, configPath string) (config.Config, error) {
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.MergeWithDefaults(*loaded)
	}
	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildPipeline wires an LLM client and the configured options into a
// pipeline. The returned closer releases the model client.
func buildPipeline(ctx context.Context, cfg config.Config, needsAudio bool, extra ...pipeline.Option) (*pipeline.Pipeline, io.Closer, error) {
	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}

	opts := []pipeline.Option{pipeline.WithBrowser(cfg.UseBrowser)}
	if cfg.Verbose {
		opts = append(opts, pipeline.WithVerbose(os.Stdout))
	}
	if needsAudio {
		if err := cfg.ValidateTranscription(); err != nil {
			client.Close() //nolint:errcheck
			return nil, nil, err
		}
		trOpts := []transcribe.Option{}
		if cfg.TranscribeURL != "" {
			trOpts = append(trOpts, transcribe.WithBaseURL(cfg.TranscribeURL))
		}
		tr, err := transcribe.NewClient(cfg.TranscribeKey, trOpts...)
		if err != nil {
			client.Close() //nolint:errcheck
			return nil, nil, fmt.Errorf("failed to create transcription client: %w", err)
		}
		opts = append(opts, pipeline.WithTranscriber(tr))
	}
	opts = append(opts, extra...)

	return pipeline.New(client, opts...), client, nil
}
