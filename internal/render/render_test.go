package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/llm-workbench/internal/synthesis"
)

func sampleResult() *synthesis.GenerationResult {
	return &synthesis.GenerationResult{
		Markdown:    "# Cover Letter for Engineer at Acme\n\nDear team,",
		GeneratedAt: time.Date(2025, time.January, 14, 15, 30, 0, 0, time.UTC),
		WordCount:   8,
	}
}

func TestDisplayHeader(t *testing.T) {
	out := Display(sampleResult(), "Engineer at Acme")

	assert.Contains(t, out, "> **Subject:** Engineer at Acme")
	assert.Contains(t, out, "> **Generated:** January 14, 2025 (8 words)")
	assert.Contains(t, out, "# Cover Letter for Engineer at Acme")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestDisplayWithoutSubject(t *testing.T) {
	out := Display(sampleResult(), "")
	assert.NotContains(t, out, "Subject:")
	assert.Contains(t, out, "Generated:")
}

func TestSaveMarkdown(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveMarkdown(dir, "cover_letter", sampleResult(), "Engineer at Acme")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "cover_letter_"))
	assert.True(t, strings.HasSuffix(path, ".md"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dear team,")
}

func TestTimestampedName(t *testing.T) {
	name := TimestampedName("minutes", ".docx")
	assert.Regexp(t, `^minutes_\d{8}_\d{6}\.docx$`, name)
}
