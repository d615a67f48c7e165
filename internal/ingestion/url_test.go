package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestURL_StripsMarkup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`
			<html>
				<head><title>Release Notes</title></head>
				<body>
					<nav>Home | About</nav>
					<script>trackVisit();</script>
					<main>
						<h1>Version 2.0</h1>
						<p>Faster indexing and a new query planner.</p>
					</main>
					<footer>Copyright</footer>
				</body>
			</html>`))
	}))
	defer server.Close()

	page, err := IngestURL(context.Background(), server.URL, false, false)
	require.NoError(t, err)
	assert.Equal(t, "Release Notes", page.Title)
	assert.Contains(t, page.Text, "Version 2.0")
	assert.Contains(t, page.Text, "query planner")
	assert.NotContains(t, page.Text, "trackVisit")
	assert.NotContains(t, page.Text, "Home | About")
}

func TestIngestURL_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := IngestURL(context.Background(), server.URL, false, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}

func TestIngestURL_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>only();</script></body></html>`))
	}))
	defer server.Close()

	_, err := IngestURL(context.Background(), server.URL, false, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentExtractionFailed)
}

func TestIngestURL_InvalidURL(t *testing.T) {
	_, err := IngestURL(context.Background(), "::not-a-url", false, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}
