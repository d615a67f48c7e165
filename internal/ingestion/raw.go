// Package ingestion normalizes uploaded artifacts (documents, audio, web pages)
// to plain text. Nothing here survives the request: inputs are read, converted,
// and discarded.
package ingestion

import (
	"fmt"
	"strings"
)

// Kind declares what an uploaded artifact claims to be.
type Kind string

const (
	// KindPDF is a PDF document
	KindPDF Kind = "pdf"
	// KindDOCX is a Word document
	KindDOCX Kind = "docx"
	// KindText is plain text
	KindText Kind = "text"
	// KindAudio is an MP3 recording
	KindAudio Kind = "audio"
	// KindURL is a web page address
	KindURL Kind = "url"
)

// RawInput is an uploaded artifact plus its declared kind. Data holds file
// bytes for document/audio kinds; Text holds pasted text or a URL string.
type RawInput struct {
	Kind Kind
	Name string // original filename, informational only
	Data []byte
	Text string
}

// UnsupportedFormatError is returned when the declared kind is not recognized
// or the file extension contradicts it.
type UnsupportedFormatError struct {
	Kind   Kind
	Detail string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unsupported format %q: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("unsupported format %q", e.Kind)
}

// CorruptFileError is returned when a file of a supported kind cannot be read.
type CorruptFileError struct {
	Kind  Kind
	Cause error
}

func (e *CorruptFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt %s file: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("corrupt %s file", e.Kind)
}

func (e *CorruptFileError) Unwrap() error {
	return e.Cause
}

// FileTooLargeError is returned before any network call when an upload exceeds
// the per-kind size limit.
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %d bytes (limit %d)", e.Size, e.Limit)
}

// DetectKind guesses the input kind from a filename extension. Explicit
// declarations win; this is only for "auto" uploads.
func DetectKind(filename string) Kind {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return KindPDF
	case strings.HasSuffix(lower, ".docx"), strings.HasSuffix(lower, ".doc"):
		return KindDOCX
	case strings.HasSuffix(lower, ".mp3"):
		return KindAudio
	default:
		return KindText
	}
}
