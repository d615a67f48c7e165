package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestTranscribe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, DefaultModel, r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "standup.mp3", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "Alice: Let's ship by Friday."}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	text, err := client.Transcribe(context.Background(), strings.NewReader("fake-mp3-bytes"), "standup.mp3")
	require.NoError(t, err)
	assert.Equal(t, "Alice: Let's ship by Friday.", text)
}

func TestTranscribe_APIErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer server.Close()

	client, err := NewClient("bad-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), strings.NewReader("x"), "a.mp3")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "invalid api key")
}

func TestTranscribe_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text": ""}`))
	}))
	defer server.Close()

	client, err := NewClient("k", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), strings.NewReader("x"), "a.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty transcription")
}

func TestTranscribe_CustomModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-large-v3", r.FormValue("model"))
		_, _ = w.Write([]byte(`{"text": "ok"}`))
	}))
	defer server.Close()

	client, err := NewClient("k", WithBaseURL(server.URL), WithModel("whisper-large-v3"))
	require.NoError(t, err)

	text, err := client.Transcribe(context.Background(), strings.NewReader("x"), "a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}
