package ingestion

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reMultiSpace = regexp.MustCompile(`\s+`)
	reBlankRuns  = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted text while preserving structure: line endings
// become LF, trailing whitespace is stripped, runs of spaces collapse, and
// blank-line runs shrink to at most one blank line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = reBlankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving bullets and indentation.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")

	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")

	// Preserve bullet lists
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") {
		indent := len(line) - len(trimmed)
		if indent > 0 {
			return strings.Repeat(" ", indent) + trimmed
		}
		return trimmed
	}

	leadingSpace := len(line) - len(trimmed)
	content := reMultiSpace.ReplaceAllString(strings.TrimSpace(line), " ")
	if leadingSpace > 0 {
		return strings.Repeat(" ", leadingSpace) + content
	}
	return content
}

// Truncate caps text at max bytes, appending an ellipsis marker when cut.
// The cut lands on a rune boundary so the result is always valid UTF-8.
// Extraction prompts stay within model context limits this way.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
