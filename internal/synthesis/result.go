// Package synthesis turns structured extracts into finished markdown documents.
// It is the pipeline's failure boundary: model errors surface here as
// user-facing GenerationFailure values and nothing is retried.
package synthesis

import (
	"strings"
	"time"
)

// GenerationResult is a finished document with its generation metadata.
type GenerationResult struct {
	Markdown    string    `json:"result"`
	GeneratedAt time.Time `json:"generated_at"`
	WordCount   int       `json:"word_count"`
}

// NewResult stamps markdown with the current time and word count.
func NewResult(markdown string) *GenerationResult {
	return &GenerationResult{
		Markdown:    markdown,
		GeneratedAt: time.Now(),
		WordCount:   len(strings.Fields(markdown)),
	}
}

// GenerationFailure reports a failed synthesis call. Its Error string is shown
// to the user verbatim.
type GenerationFailure struct {
	Task    string
	Message string
	Cause   error
}

func (e *GenerationFailure) Error() string {
	if e.Message != "" {
		return "generation failed (" + e.Task + "): " + e.Message
	}
	if e.Cause != nil {
		return "generation failed (" + e.Task + "): " + e.Cause.Error()
	}
	return "generation failed (" + e.Task + ")"
}

func (e *GenerationFailure) Unwrap() error { return e.Cause }

// semanticallyEmpty reports whether model output contains no prose once
// markdown scaffolding is stripped. Such a response counts as a failure.
func semanticallyEmpty(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "#*->`| ")
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
