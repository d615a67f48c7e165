package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("synthesis.json", "cover-letter")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "cover letter")
	assert.Contains(t, prompt, "{{.Company}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("synthesis.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("extraction.json", "system-meeting")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Question for {{.Name}}: {{.Question}}"
	data := map[string]string{
		"Name":     "Alice",
		"Question": "What is a goroutine?",
	}

	result := Format(template, data)
	assert.Equal(t, "Question for Alice: What is a goroutine?", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	result := Format(template, map[string]string{"Key": "Value"})
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("synthesis.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "cover-letter")
	assert.Contains(t, keys, "meeting-summary")
	assert.Contains(t, keys, "action-items")
	assert.Contains(t, keys, "website-summary")
	assert.Contains(t, keys, "tutor-answer")
}
