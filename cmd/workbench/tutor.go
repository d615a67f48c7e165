package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/pipeline"
)

var (
	tutConfigPath string
	tutNoStream   bool
	tutVerbose    bool
)

var tutorCmd = &cobra.Command{
	Use:   "tutor [question]",
	Short: "Ask the technical tutor a question",
	Long:  `Answers a technical question in markdown. By default the answer streams to the terminal as the model produces it.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTutor,
}

func init() {
	tutorCmd.Flags().StringVar(&tutConfigPath, "config", "", "Path to config.json file")
	tutorCmd.Flags().BoolVar(&tutNoStream, "no-stream", false, "Wait for the full answer instead of streaming")
	tutorCmd.Flags().BoolVarP(&tutVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(tutorCmd)
}

func runTutor(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(config.Config{Verbose: tutVerbose}, tutConfigPath)
	if err != nil {
		return err
	}

	p, closer, err := buildPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	req := pipeline.TutorRequest{Question: strings.Join(args, " ")}
	if !tutNoStream {
		req.OnChunk = func(chunk string) error {
			fmt.Print(chunk)
			return nil
		}
	}

	out, err := p.Tutor(ctx, req)
	if err != nil {
		return err
	}
	if tutNoStream {
		fmt.Println(out.Display())
	} else {
		fmt.Println()
	}
	return nil
}
