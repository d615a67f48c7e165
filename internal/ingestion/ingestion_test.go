package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/llm-workbench/internal/config"
)

// buildDOCX assembles a minimal .docx archive with the given paragraphs.
func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	_, err = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	require.NoError(t, err)
	for _, p := range paragraphs {
		_, err = io.WriteString(w, `<w:p><w:r><w:t>`+p+`</w:t></w:r></w:p>`)
		require.NoError(t, err)
	}
	_, err = io.WriteString(w, `</w:body></w:document>`)
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestIngestDocument_DOCX(t *testing.T) {
	data := buildDOCX(t, "Experienced backend engineer", "Python, 5 years")

	text, err := IngestDocument(RawInput{Kind: KindDOCX, Name: "resume.docx", Data: data})
	require.NoError(t, err)
	assert.Contains(t, text, "Experienced backend engineer")
	assert.Contains(t, text, "Python, 5 years")

	// Paragraph order must be preserved
	assert.Less(t, indexOf(text, "Experienced"), indexOf(text, "Python"))
}

func TestIngestDocument_TruncatedDOCX(t *testing.T) {
	data := buildDOCX(t, "content")

	_, err := IngestDocument(RawInput{Kind: KindDOCX, Data: data[:len(data)/2]})
	require.Error(t, err)

	var corruptErr *CorruptFileError
	assert.ErrorAs(t, err, &corruptErr)
}

func TestIngestDocument_CorruptPDF(t *testing.T) {
	_, err := IngestDocument(RawInput{Kind: KindPDF, Name: "resume.pdf", Data: []byte("not a pdf at all")})
	require.Error(t, err)

	var corruptErr *CorruptFileError
	require.ErrorAs(t, err, &corruptErr)
	assert.Equal(t, KindPDF, corruptErr.Kind)
}

func TestIngestDocument_PlainText(t *testing.T) {
	text, err := IngestDocument(RawInput{Kind: KindText, Text: "Experienced backend engineer, Python, 5 years"})
	require.NoError(t, err)
	assert.Equal(t, "Experienced backend engineer, Python, 5 years", text)
}

func TestIngestDocument_EmptyFile(t *testing.T) {
	_, err := IngestDocument(RawInput{Kind: KindText})
	require.Error(t, err)

	var corruptErr *CorruptFileError
	assert.ErrorAs(t, err, &corruptErr)
}

func TestIngestDocument_UnsupportedKind(t *testing.T) {
	_, err := IngestDocument(RawInput{Kind: KindAudio, Data: []byte("x")})
	require.Error(t, err)

	var formatErr *UnsupportedFormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestIngestDocument_TooLarge(t *testing.T) {
	big := make([]byte, config.MaxDocumentBytes+1)

	_, err := IngestDocument(RawInput{Kind: KindText, Data: big})
	require.Error(t, err)

	var sizeErr *FileTooLargeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, int64(config.MaxDocumentBytes), sizeErr.Limit)
}

// countingTranscriber records how many times it is called.
type countingTranscriber struct {
	calls int
	text  string
	err   error
}

func (c *countingTranscriber) Transcribe(_ context.Context, _ io.Reader, _ string) (string, error) {
	c.calls++
	return c.text, c.err
}

func TestIngestAudio_Success(t *testing.T) {
	tr := &countingTranscriber{text: "Alice: Let's ship by Friday. Bob: I'll handle tests."}

	text, err := IngestAudio(context.Background(), RawInput{
		Kind: KindAudio,
		Name: "standup.mp3",
		Data: []byte("fake-mp3"),
	}, tr)
	require.NoError(t, err)
	assert.Contains(t, text, "Alice")
	assert.Equal(t, 1, tr.calls)
}

func TestIngestAudio_TooLarge_NoNetworkCall(t *testing.T) {
	tr := &countingTranscriber{text: "never reached"}
	big := make([]byte, config.MaxAudioBytes+1)

	_, err := IngestAudio(context.Background(), RawInput{Kind: KindAudio, Name: "big.mp3", Data: big}, tr)
	require.Error(t, err)

	var sizeErr *FileTooLargeError
	assert.ErrorAs(t, err, &sizeErr)
	assert.Zero(t, tr.calls, "transcriber must not be called for oversized uploads")
}

func TestIngestAudio_WrongExtension(t *testing.T) {
	tr := &countingTranscriber{}

	_, err := IngestAudio(context.Background(), RawInput{Kind: KindAudio, Name: "notes.wav", Data: []byte("x")}, tr)
	require.Error(t, err)

	var formatErr *UnsupportedFormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.Zero(t, tr.calls)
}

func TestIngestAudio_EmptyFile(t *testing.T) {
	tr := &countingTranscriber{}

	_, err := IngestAudio(context.Background(), RawInput{Kind: KindAudio, Name: "a.mp3"}, tr)
	require.Error(t, err)
	assert.Zero(t, tr.calls)
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		filename string
		want     Kind
	}{
		{"resume.pdf", KindPDF},
		{"Resume.PDF", KindPDF},
		{"resume.docx", KindDOCX},
		{"old.doc", KindDOCX},
		{"standup.mp3", KindAudio},
		{"notes.txt", KindText},
		{"no-extension", KindText},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectKind(tt.filename), tt.filename)
	}
}

func indexOf(s, substr string) int {
	return bytes.Index([]byte(s), []byte(substr))
}
