package ingestion

import (
	"fmt"
	"strings"

	"github.com/jonathan/llm-workbench/internal/config"
)

// IngestDocument converts a PDF, DOCX, or plain-text upload to NormalizedText.
// Size validation happens before any parsing work.
func IngestDocument(raw RawInput) (string, error) {
	switch raw.Kind {
	case KindPDF, KindDOCX, KindText:
	default:
		return "", &UnsupportedFormatError{Kind: raw.Kind, Detail: "expected a document upload"}
	}

	if len(raw.Data) == 0 && raw.Text == "" {
		return "", &CorruptFileError{Kind: raw.Kind, Cause: fmt.Errorf("empty file")}
	}
	if int64(len(raw.Data)) > config.MaxDocumentBytes {
		return "", &FileTooLargeError{Size: int64(len(raw.Data)), Limit: config.MaxDocumentBytes}
	}

	var text string
	var err error
	switch raw.Kind {
	case KindPDF:
		text, err = extractPDF(raw.Data)
	case KindDOCX:
		text, err = extractDOCX(raw.Data)
	case KindText:
		if raw.Text != "" {
			text = raw.Text
		} else {
			text = string(raw.Data)
		}
	}
	if err != nil {
		return "", err
	}

	cleaned := CleanText(text)
	if strings.TrimSpace(cleaned) == "" {
		return "", &CorruptFileError{Kind: raw.Kind, Cause: fmt.Errorf("no readable text")}
	}

	return cleaned, nil
}
