package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/llm"
)

// stubClient returns canned responses for extraction calls.
type stubClient struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.GenerateJSON(ctx, prompt, tier)
}

func (s *stubClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, s.err
}

func (s *stubClient) GenerateStream(ctx context.Context, prompt string, tier llm.ModelTier, fn llm.StreamFunc) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if err := fn(s.response); err != nil {
		return "", err
	}
	return s.response, nil
}

func (s *stubClient) GetModel(tier llm.ModelTier) string { return "stub-model" }
func (s *stubClient) Close() error                       { return nil }

func assertComplete(t *testing.T, schema Schema, extract *StructuredExtract) {
	t.Helper()
	for _, f := range schema.Fields {
		_, ok := extract.Fields[f.Name]
		assert.True(t, ok, "field %s missing from extract", f.Name)
	}
	assert.Len(t, extract.Fields, len(schema.Fields))
}

func TestExtractWellFormedResponse(t *testing.T) {
	client := &stubClient{response: `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"phone": "555-0100",
		"location": "Berlin, Germany",
		"summary": "Backend engineer with eight years of Go experience.",
		"skills": ["Go", "PostgreSQL", "Kubernetes"],
		"experience": ["Senior Engineer at Acme (2019-2024)"],
		"education": ["BSc Computer Science, TU Berlin"],
		"certifications": [],
		"achievements": ["Cut p99 latency by 40%"]
	}`}

	schema := ResumeSchema()
	extract := NewExtractor(client).Extract(context.Background(), schema, "resume text")

	assertComplete(t, schema, extract)
	assert.Equal(t, "Jane Doe", extract.Get("name"))
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, extract.List("skills"))
	assert.Equal(t, SourceExtracted, extract.Fields["name"].Source)

	// An empty array from the model has no usable content, so the field falls back.
	assert.True(t, extract.Fields["certifications"].IsFallback())
}

func TestExtractUnparseableResponse(t *testing.T) {
	client := &stubClient{response: "I'm sorry, I cannot produce JSON for that."}

	schema := ResumeSchema()
	extract := NewExtractor(client).Extract(context.Background(), schema, "resume text")

	assertComplete(t, schema, extract)
	assert.True(t, extract.Degraded)
	assert.Equal(t, "Unknown", extract.Get("name"))
	assert.Equal(t, "Professional with relevant experience", extract.Get("summary"))
	for name, v := range extract.Fields {
		assert.True(t, v.IsFallback(), "field %s should be a fallback", name)
	}
}

func TestExtractModelError(t *testing.T) {
	client := &stubClient{err: errors.New("rate limited")}

	schema := JobSchema()
	extract := NewExtractor(client).Extract(context.Background(), schema, "job posting")

	assertComplete(t, schema, extract)
	assert.True(t, extract.Degraded)
	assert.Equal(t, "Target Company", extract.Get("company_name"))
	assert.Equal(t, []string{"Relevant skills"}, extract.List("required_skills"))
}

func TestExtractPartialResponse(t *testing.T) {
	client := &stubClient{response: `{"company_name": "Acme GmbH", "required_skills": ["Go"]}`}

	schema := JobSchema()
	extract := NewExtractor(client).Extract(context.Background(), schema, "job posting")

	assertComplete(t, schema, extract)
	assert.True(t, extract.Degraded)
	assert.Equal(t, "Acme GmbH", extract.Get("company_name"))
	assert.Equal(t, SourceExtracted, extract.Fields["company_name"].Source)
	assert.True(t, extract.Fields["job_title"].IsFallback())
	assert.Equal(t, "Position", extract.Get("job_title"))
}

func TestExtractShapeDrift(t *testing.T) {
	// Scalar where a list was expected, and a number where a string was expected.
	client := &stubClient{response: `{
		"title": 42,
		"participants": "Alice",
		"key_points": ["Budget approved"],
		"decisions": null,
		"action_items": [{"owner": "Bob", "task": "Send recap"}]
	}`}

	schema := MeetingSchema()
	extract := NewExtractor(client).Extract(context.Background(), schema, "transcript")

	assertComplete(t, schema, extract)
	assert.Equal(t, "42", extract.Get("title"))
	assert.Equal(t, []string{"Alice"}, extract.List("participants"))
	assert.True(t, extract.Fields["decisions"].IsFallback())
	require.Len(t, extract.List("action_items"), 1)
	assert.Contains(t, extract.List("action_items")[0], "Send recap")
}

func TestExtractEmptyInputSkipsModel(t *testing.T) {
	client := &stubClient{response: `{}`}

	schema := WebPageSchema()
	extract := NewExtractor(client).Extract(context.Background(), schema, "   \n\t ")

	assert.Zero(t, client.calls)
	assertComplete(t, schema, extract)
	assert.True(t, extract.Degraded)
	assert.Equal(t, "Untitled Page", extract.Get("title"))
}

func TestExtractOversizeInputSendsValidUTF8(t *testing.T) {
	client := &stubClient{response: `{}`}

	// Multi-byte runes sized so the length cap lands mid-rune. The
	// truncated prompt must still be valid UTF-8 or the model client
	// rejects the whole request.
	input := "x" + strings.Repeat("é", config.MaxExtractChars)
	NewExtractor(client).Extract(context.Background(), WebPageSchema(), input)

	require.Equal(t, 1, client.calls)
	assert.True(t, utf8.ValidString(client.lastPrompt))
}

func TestBuildPromptContainsShapeAndInput(t *testing.T) {
	prompt := BuildPrompt(MeetingSchema(), "Alice: let's start.")

	assert.Contains(t, prompt, `"action_items": [string]`)
	assert.Contains(t, prompt, "Alice: let's start.")
	assert.Contains(t, prompt, "ONLY valid JSON")
}

func TestJSONSchemaValidatesConformingDoc(t *testing.T) {
	doc := MeetingSchema().JSONSchema()
	assert.Contains(t, doc, `"participants"`)
	assert.Contains(t, doc, `"type":"array"`)
}

func TestStructuredExtractGetJoinsLists(t *testing.T) {
	e := &StructuredExtract{Fields: map[string]FieldValue{
		"skills": {Source: SourceExtracted, List: []string{"Go", "SQL"}},
	}}
	assert.Equal(t, "Go, SQL", e.Get("skills"))
	assert.Equal(t, "", e.Get("missing"))
	assert.Nil(t, e.List("missing"))
}
