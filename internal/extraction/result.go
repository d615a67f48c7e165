// Package extraction turns normalized text into schema-shaped summaries via a
// single LLM call, degrading to predefined fallback values instead of failing.
package extraction

import "strings"

// Source says whether a field value came from the model or from the schema's
// fallback. Tagging beats nil-checking: completeness is visible in the type.
type Source string

const (
	// SourceExtracted means the model supplied the value
	SourceExtracted Source = "extracted"
	// SourceFallback means the schema default was substituted
	SourceFallback Source = "fallback"
)

// FieldValue is one populated schema field. Text is set for scalar fields,
// List for list fields; exactly one is meaningful per field type.
type FieldValue struct {
	Source Source
	Text   string
	List   []string
}

// IsFallback reports whether the value is the schema default.
func (v FieldValue) IsFallback() bool {
	return v.Source == SourceFallback
}

// StructuredExtract maps schema field names to values. Every field declared by
// the schema is present; Degraded is true when any value fell back.
type StructuredExtract struct {
	Schema   string
	Fields   map[string]FieldValue
	Degraded bool
}

// Get returns a field as a display string: the scalar text, or list items
// joined with ", ". Unknown fields return empty.
func (e *StructuredExtract) Get(name string) string {
	v, ok := e.Fields[name]
	if !ok {
		return ""
	}
	if v.Text != "" {
		return v.Text
	}
	return strings.Join(v.List, ", ")
}

// List returns a field's list items. Scalar fields return nil.
func (e *StructuredExtract) List(name string) []string {
	v, ok := e.Fields[name]
	if !ok {
		return nil
	}
	return v.List
}
