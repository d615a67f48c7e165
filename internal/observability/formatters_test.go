package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/llm-workbench/internal/extraction"
	"github.com/jonathan/llm-workbench/internal/synthesis"
)

func TestPrintExtract(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtract(&extraction.StructuredExtract{
		Schema: "job",
		Fields: map[string]extraction.FieldValue{
			"company_name": {Source: extraction.SourceExtracted, Text: "Acme Corp"},
			"job_title":    {Source: extraction.SourceFallback, Text: "Position"},
		},
		Degraded: true,
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACT: JOB")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "(fallback)")
	assert.Contains(t, output, "degraded")
}

func TestPrintExtract_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtract(nil)

	assert.Empty(t, buf.String())
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(&synthesis.GenerationResult{
		Markdown:    "# Meeting Minutes\n\n## Meeting Summary\n\nThe budget was approved.\n\nMore.\nMore.\nMore.",
		GeneratedAt: time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC),
		WordCount:   12,
	})
	output := buf.String()

	assert.Contains(t, output, "GENERATED DOCUMENT")
	assert.Contains(t, output, "Words:     12")
	assert.Contains(t, output, "# Meeting Minutes")
	assert.Contains(t, output, "more lines")
}

func TestPrintStep(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStep("ingestion", "reading resume.pdf")

	assert.Contains(t, buf.String(), "[ingestion] reading resume.pdf")
}
