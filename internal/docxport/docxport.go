// Package docxport exports generated markdown documents as .docx files so
// minutes can be shared with people who live in word processors.
package docxport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/jonathan/llm-workbench/internal/synthesis"
)

const (
	bodyFont = "Calibri"
	bodySize = 11
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	bulletRe  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	boldRe    = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Export writes a generation result to path as a .docx document. The markdown
// subset produced by synthesis is handled: headings, bullets, bold runs and
// plain paragraphs; anything else lands as plain text.
func Export(res *synthesis.GenerationResult, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("docx export: %w", err)
	}

	writeLine(doc, "Generated "+res.GeneratedAt.Format("January 2, 2006"), false, bodySize)

	for _, line := range strings.Split(res.Markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}
		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			writeLine(doc, m[2], true, headingSize(len(m[1])))
			continue
		}
		if m := bulletRe.FindStringSubmatch(trimmed); m != nil {
			writeRuns(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		writeRuns(doc.AddParagraph(""), trimmed)
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("docx export: writing %s: %w", path, err)
	}
	return nil
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 14
	case 3:
		return 12
	default:
		return bodySize
	}
}

func writeLine(doc *docx.RootDoc, text string, bold bool, size uint64) {
	p := doc.AddParagraph("")
	run := p.AddText(stripInline(text)).Font(bodyFont).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// writeRuns splits a line on **bold** spans so emphasis survives the export.
func writeRuns(p *docx.Paragraph, text string) {
	plain := boldRe.Split(text, -1)
	bold := boldRe.FindAllStringSubmatch(text, -1)

	for i, part := range plain {
		if part != "" {
			p.AddText(stripInline(part)).Font(bodyFont).Size(bodySize).Color("000000")
		}
		if i < len(bold) {
			p.AddText(stripInline(bold[i][1])).Font(bodyFont).Size(bodySize).Color("000000").Bold(true)
		}
	}
}

func stripInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
