// Package render prepares generated documents for display and saving.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/llm-workbench/internal/synthesis"
)

// Display returns the document with its metadata header: subject, generation
// date and word count. The header is a markdown blockquote so the document's
// own headings stay the top-level structure.
func Display(res *synthesis.GenerationResult, subject string) string {
	var b strings.Builder
	if subject != "" {
		fmt.Fprintf(&b, "> **Subject:** %s\n", subject)
	}
	fmt.Fprintf(&b, "> **Generated:** %s (%d words)\n\n", res.GeneratedAt.Format("January 2, 2006"), res.WordCount)
	b.WriteString(res.Markdown)
	if !strings.HasSuffix(res.Markdown, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// TimestampedName builds an output filename like cover_letter_20250114_153000.md.
func TimestampedName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s%s", prefix, time.Now().Format("20060102_150405"), ext)
}

// SaveMarkdown writes a displayed document to dir under a timestamped name and
// returns the written path.
func SaveMarkdown(dir, prefix string, res *synthesis.GenerationResult, subject string) (string, error) {
	path := filepath.Join(dir, TimestampedName(prefix, ".md"))
	if err := os.WriteFile(path, []byte(Display(res, subject)), 0o644); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}
