// Package transcribe provides a client for Whisper-compatible speech-to-text APIs.
// The API is treated as an opaque external service: audio in, plain text out.
package transcribe

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL targets the OpenAI-compatible transcription endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultModel is the transcription model requested by default.
const DefaultModel = "whisper-1"

// DefaultTimeout bounds a single transcription call. Large recordings take a
// while to process upstream, so this is generous.
const DefaultTimeout = 5 * time.Minute

// Transcriber converts audio to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// APIError represents a failure reported by the transcription service.
type APIError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcription failed: %s: %v", e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("transcription failed: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("transcription failed: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Client is a Transcriber backed by a Whisper-compatible HTTP API.
type Client struct {
	http  *resty.Client
	model string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.http.SetBaseURL(baseURL)
		}
	}
}

// WithModel overrides the transcription model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// NewClient creates a transcription client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	httpClient := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(DefaultTimeout).
		SetAuthToken(apiKey)

	c := &Client{
		http:  httpClient,
		model: DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Transcribe uploads audio and returns the transcribed text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, audio).
		SetFormData(map[string]string{
			"model":           c.model,
			"response_format": "json",
		}).
		Post("/audio/transcriptions")
	if err != nil {
		return "", &APIError{Message: "request failed", Cause: err}
	}

	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "error.message").String()
		if msg == "" {
			msg = "unexpected response from transcription service"
		}
		return "", &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	text := gjson.GetBytes(resp.Body(), "text").String()
	if text == "" {
		return "", &APIError{Message: "empty transcription in response"}
	}

	return text, nil
}
