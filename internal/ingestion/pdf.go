package ingestion

import (
	"strings"

	"github.com/gen2brain/go-fitz"
)

// extractPDF pulls text from every page of a PDF, concatenated in page order.
func extractPDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", &CorruptFileError{Kind: KindPDF, Cause: err}
	}
	defer func() { _ = doc.Close() }()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", &CorruptFileError{Kind: KindPDF, Cause: err}
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
