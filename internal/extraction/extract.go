package extraction

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/ingestion"
	"github.com/jonathan/llm-workbench/internal/llm"
	"github.com/jonathan/llm-workbench/internal/prompts"
)

// Extractor runs schema-shaped extraction against an LLM. It never returns an
// error: any model failure degrades to the schema's fallback values so later
// stages always receive a complete extract.
type Extractor struct {
	client  llm.Client
	tier    llm.ModelTier
	verbose bool
}

// NewExtractor builds an extractor using the lite tier, where extraction runs
// by default.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client, tier: llm.TierLite}
}

// WithTier overrides the model tier used for extraction calls.
func (e *Extractor) WithTier(tier llm.ModelTier) *Extractor {
	e.tier = tier
	return e
}

// WithVerbose enables logging of degraded fields.
func (e *Extractor) WithVerbose(v bool) *Extractor {
	e.verbose = v
	return e
}

// Extract asks the model to fill the schema from text and repairs the result
// field by field. Input longer than the extraction window is truncated first.
// The returned extract always carries a value for every schema field.
func (e *Extractor) Extract(ctx context.Context, schema Schema, text string) *StructuredExtract {
	out := &StructuredExtract{Schema: schema.Name, Fields: make(map[string]FieldValue, len(schema.Fields))}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		e.degradeAll(schema, out, "empty input")
		return out
	}
	trimmed = ingestion.Truncate(trimmed, config.MaxExtractChars)

	raw, err := e.client.GenerateJSON(ctx, BuildPrompt(schema, trimmed), e.tier)
	if err != nil {
		e.degradeAll(schema, out, err.Error())
		return out
	}
	cleaned := llm.CleanJSONBlock(raw)
	if !gjson.Valid(cleaned) {
		e.degradeAll(schema, out, "model returned unparseable JSON")
		return out
	}

	// Schema validation is advisory: a shape mismatch flags degradation but
	// individual conforming fields are still used.
	if res, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema.JSONSchema()),
		gojsonschema.NewStringLoader(cleaned),
	); err != nil || !res.Valid() {
		out.Degraded = true
		if e.verbose {
			log.Printf("extraction: %s response failed schema validation", schema.Name)
		}
	}

	for _, f := range schema.Fields {
		v, ok := pluckField(cleaned, f)
		if !ok {
			v = f.Fallback()
			out.Degraded = true
			if e.verbose {
				log.Printf("extraction: %s.%s fell back", schema.Name, f.Name)
			}
		}
		out.Fields[f.Name] = v
	}
	return out
}

func (e *Extractor) degradeAll(schema Schema, out *StructuredExtract, reason string) {
	out.Degraded = true
	for _, f := range schema.Fields {
		out.Fields[f.Name] = f.Fallback()
	}
	if e.verbose {
		log.Printf("extraction: %s degraded entirely: %s", schema.Name, reason)
	}
}

// pluckField reads one field out of the model's JSON, tolerating shape drift:
// scalars delivered as numbers are stringified, lists of objects are flattened
// to their raw JSON. Missing, null or empty values report !ok.
func pluckField(doc string, f Field) (FieldValue, bool) {
	r := gjson.Get(doc, f.Name)
	if !r.Exists() || r.Type == gjson.Null {
		return FieldValue{}, false
	}
	if f.Type == TypeList {
		if !r.IsArray() {
			// A lone scalar where a list was expected becomes a one-item list.
			s := strings.TrimSpace(r.String())
			if s == "" {
				return FieldValue{}, false
			}
			return FieldValue{Source: SourceExtracted, List: []string{s}}, true
		}
		var items []string
		for _, el := range r.Array() {
			var s string
			if el.Type == gjson.String {
				s = el.String()
			} else {
				s = el.Raw
			}
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return FieldValue{}, false
		}
		return FieldValue{Source: SourceExtracted, List: items}, true
	}
	s := strings.TrimSpace(r.String())
	if s == "" {
		return FieldValue{}, false
	}
	return FieldValue{Source: SourceExtracted, Text: s}, true
}

// BuildPrompt constructs the extraction prompt: the schema's system prompt,
// the exact JSON shape expected back, and the input text fenced off.
func BuildPrompt(schema Schema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(prompts.MustGet("extraction.json", schema.PromptKey))
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON with this exact structure:\n{\n")
	sb.WriteString(schema.promptShape())
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent details.\n")
	sb.WriteString("- Use null for information that is not present.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	fmt.Fprintf(&sb, "Input text:\n\"\"\"\n%s\n\"\"\"\n", inputText)
	return sb.String()
}
