// Package config provides configuration loading and validation for the workbench.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Size and truncation limits shared by all utilities.
const (
	// MaxAudioBytes is the upload ceiling for meeting recordings.
	MaxAudioBytes = 50 * 1024 * 1024
	// MaxDocumentBytes is the upload ceiling for resumes and other documents.
	MaxDocumentBytes = 2 * 1024 * 1024
	// MaxExtractChars caps the text sent to structured extraction.
	MaxExtractChars = 10000
	// MaxSummaryChars caps scraped web page text sent to synthesis.
	MaxSummaryChars = 2000
)

// Config represents the workbench configuration. Values can come from a JSON
// file, environment variables, or CLI flags; flags win over file values.
type Config struct {
	// Credentials
	APIKey        string `json:"api_key,omitempty"`        // Generative model API key
	TranscribeURL string `json:"transcribe_url,omitempty"` // Transcription endpoint base URL
	TranscribeKey string `json:"transcribe_key,omitempty"` // Transcription API key

	// Server
	Port int `json:"port,omitempty"`

	// Watch mode
	WatchDir string `json:"watch_dir,omitempty"` // Drop folder for meeting recordings

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Headless browser fallback for script-heavy pages
	Verbose    bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills unset fields from environment variables. The .env file, if any,
// has already been loaded by the CLI entry point.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.TranscribeURL == "" {
		c.TranscribeURL = os.Getenv("TRANSCRIBE_API_URL")
	}
	if c.TranscribeKey == "" {
		c.TranscribeKey = os.Getenv("TRANSCRIBE_API_KEY")
	}
}

// ConfigurationError is a fatal startup misconfiguration, e.g. a missing
// credential. It is never produced during request handling.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// Validate checks that required credentials are present. Callers treat any
// error as fatal and exit non-zero.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &ConfigurationError{
			Field:   "api_key",
			Message: "GEMINI_API_KEY not set; add it to your environment or .env file",
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return &ConfigurationError{
			Field:   "port",
			Message: fmt.Sprintf("invalid port %d", c.Port),
		}
	}
	return nil
}

// ValidateTranscription checks transcription credentials. Only the minutes
// and watch commands need these.
func (c *Config) ValidateTranscription() error {
	if c.TranscribeKey == "" {
		return &ConfigurationError{
			Field:   "transcribe_key",
			Message: "TRANSCRIBE_API_KEY not set; required for audio transcription",
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// Used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.TranscribeURL == "" {
		result.TranscribeURL = defaults.TranscribeURL
	}
	if result.TranscribeKey == "" {
		result.TranscribeKey = defaults.TranscribeKey
	}
	if result.WatchDir == "" {
		result.WatchDir = defaults.WatchDir
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
