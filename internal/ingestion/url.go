package ingestion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/llm-workbench/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the page fetch fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when no readable text can be pulled from the page
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// PageContent is the normalized result of fetching a web page.
type PageContent struct {
	Title string
	Text  string
}

// IngestURL fetches a page, strips markup, and returns human-readable text.
// If useBrowser is true and the static fetch yields too little text, the page
// is re-rendered in a headless browser before giving up.
func IngestURL(ctx context.Context, urlStr string, useBrowser bool, verbose bool) (*PageContent, error) {
	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	html := result.HTML
	textContent, err := fetch.ExtractMainText(html, fetch.DefaultTextSelectors())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				len(textContent), fetch.MinContentLength)
		}

		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else {
			html = browserHTML
			if rendered, rerr := fetch.ExtractMainText(browserHTML, fetch.DefaultTextSelectors()); rerr == nil {
				textContent = rendered
			}
		}
	}

	cleaned := CleanText(textContent)
	if strings.TrimSpace(cleaned) == "" {
		return nil, fmt.Errorf("%w: page contains no readable text", ErrContentExtractionFailed)
	}

	return &PageContent{
		Title: fetch.PageTitle(html),
		Text:  cleaned,
	}, nil
}
