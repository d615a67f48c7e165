package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/transcribe"
)

// ValidateAudio rejects an audio upload before any network call is made.
// Checks the declared format, emptiness, and the size ceiling in that order.
func ValidateAudio(raw RawInput) error {
	if raw.Kind != KindAudio {
		return &UnsupportedFormatError{Kind: raw.Kind, Detail: "expected an audio upload"}
	}
	if raw.Name != "" && !strings.HasSuffix(strings.ToLower(raw.Name), ".mp3") {
		return &UnsupportedFormatError{Kind: raw.Kind, Detail: "only MP3 recordings are supported"}
	}
	if len(raw.Data) == 0 {
		return &CorruptFileError{Kind: KindAudio, Cause: fmt.Errorf("empty file")}
	}
	if int64(len(raw.Data)) > config.MaxAudioBytes {
		return &FileTooLargeError{Size: int64(len(raw.Data)), Limit: config.MaxAudioBytes}
	}
	return nil
}

// IngestAudio validates a recording and delegates to the transcription service,
// returning cleaned transcript text. Validation failures happen before tr is
// ever called.
func IngestAudio(ctx context.Context, raw RawInput, tr transcribe.Transcriber) (string, error) {
	if err := ValidateAudio(raw); err != nil {
		return "", err
	}

	name := raw.Name
	if name == "" {
		name = "recording.mp3"
	}

	text, err := tr.Transcribe(ctx, bytes.NewReader(raw.Data), name)
	if err != nil {
		return "", fmt.Errorf("audio ingestion: %w", err)
	}

	return CleanText(text), nil
}
