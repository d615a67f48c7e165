// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/llm-workbench/internal/extraction"
	"github.com/jonathan/llm-workbench/internal/synthesis"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintExtract outputs a human-readable summary of a structured extract,
// flagging fields that fell back to schema defaults.
func (p *Printer) PrintExtract(extract *extraction.StructuredExtract) {
	if extract == nil {
		return
	}

	names := make([]string, 0, len(extract.Fields))
	for name := range extract.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		v := extract.Fields[name]
		val := extract.Get(name)
		if len(val) > 32 {
			val = val[:29] + "..."
		}
		marker := ""
		if v.IsFallback() {
			marker = " (fallback)"
		}
		sb.WriteString(fmt.Sprintf("%-16s %s%s\n", name+":", val, marker))
	}
	if extract.Degraded {
		sb.WriteString("\nExtraction was degraded; fallback values in use.\n")
	}

	title := fmt.Sprintf("EXTRACT: %s", strings.ToUpper(extract.Schema))
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs generation metadata and a preview of the document.
func (p *Printer) PrintResult(res *synthesis.GenerationResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated: %s\n", res.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Words:     %d\n\n", res.WordCount))

	lines := strings.Split(res.Markdown, "\n")
	count := min(len(lines), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i])
		sb.WriteString("\n")
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-maxItemsToShow))
	}

	p.printBox("GENERATED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStep announces a pipeline stage in verbose mode.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(stage, message string) {
	fmt.Fprintf(p.out, "▸ [%s] %s\n", stage, message)
}
