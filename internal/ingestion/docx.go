package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX pulls paragraph text from a Word document, in document order.
// A .docx file is a zip archive; body text lives in word/document.xml as
// w:t runs grouped into w:p paragraphs.
func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &CorruptFileError{Kind: KindDOCX, Cause: err}
	}

	var docFile *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", &CorruptFileError{Kind: KindDOCX, Cause: fmt.Errorf("word/document.xml not found")}
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", &CorruptFileError{Kind: KindDOCX, Cause: err}
	}
	defer func() { _ = rc.Close() }()

	text, err := decodeDocumentXML(rc)
	if err != nil {
		return "", &CorruptFileError{Kind: KindDOCX, Cause: err}
	}
	return text, nil
}

// decodeDocumentXML walks the WordprocessingML token stream collecting text
// runs and inserting a newline at each paragraph boundary.
func decodeDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	var inText bool

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
