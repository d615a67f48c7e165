package extraction

import (
	"fmt"
	"strings"
)

// FieldType distinguishes scalar string fields from list-of-string fields.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeList   FieldType = "list"
)

// Field declares one expected key in the model's JSON response together with
// the value substituted when the model omits or mangles it.
type Field struct {
	Name         string
	Type         FieldType
	Description  string
	FallbackText string
	FallbackList []string
}

// Fallback returns the field's default value tagged as such.
func (f Field) Fallback() FieldValue {
	if f.Type == TypeList {
		return FieldValue{Source: SourceFallback, List: f.FallbackList}
	}
	return FieldValue{Source: SourceFallback, Text: f.FallbackText}
}

// Schema describes the JSON document a model is asked to produce for one task.
// PromptKey names the system prompt in prompts/extraction.json.
type Schema struct {
	Name      string
	PromptKey string
	Fields    []Field
}

// Field looks up a declared field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// JSONSchema renders the schema as a JSON Schema document for validating the
// model's raw response. Fields are optional on purpose: a partial response is
// repaired field by field, not rejected wholesale.
func (s Schema) JSONSchema() string {
	var b strings.Builder
	b.WriteString(`{"type":"object","properties":{`)
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		if f.Type == TypeList {
			fmt.Fprintf(&b, `%q:{"type":"array","items":{"type":["string","object"]}}`, f.Name)
		} else {
			fmt.Fprintf(&b, `%q:{"type":["string","null"]}`, f.Name)
		}
	}
	b.WriteString(`}}`)
	return b.String()
}

// promptShape renders the field list the model is shown, e.g.
//
//	"name": string // full name of the candidate
//	"skills": [string] // technical and soft skills
func (s Schema) promptShape() string {
	var b strings.Builder
	for _, f := range s.Fields {
		shape := "string"
		if f.Type == TypeList {
			shape = "[string]"
		}
		fmt.Fprintf(&b, "  %q: %s // %s\n", f.Name, shape, f.Description)
	}
	return b.String()
}

// ResumeSchema covers candidate resumes and CVs.
func ResumeSchema() Schema {
	return Schema{
		Name:      "resume",
		PromptKey: "system-resume",
		Fields: []Field{
			{Name: "name", Type: TypeString, Description: "full name of the candidate", FallbackText: "Unknown"},
			{Name: "email", Type: TypeString, Description: "email address", FallbackText: "unknown@email.com"},
			{Name: "phone", Type: TypeString, Description: "phone number", FallbackText: "Unknown"},
			{Name: "location", Type: TypeString, Description: "city and country or region", FallbackText: "Unknown"},
			{Name: "summary", Type: TypeString, Description: "professional summary in one or two sentences", FallbackText: "Professional with relevant experience"},
			{Name: "skills", Type: TypeList, Description: "technical and soft skills", FallbackList: []string{"Various skills"}},
			{Name: "experience", Type: TypeList, Description: "work history entries, one per role", FallbackList: []string{"Relevant experience at various companies"}},
			{Name: "education", Type: TypeList, Description: "degrees and institutions", FallbackList: []string{"Relevant degree"}},
			{Name: "certifications", Type: TypeList, Description: "professional certifications", FallbackList: nil},
			{Name: "achievements", Type: TypeList, Description: "notable achievements with outcomes", FallbackList: nil},
		},
	}
}

// JobSchema covers job postings and role descriptions.
func JobSchema() Schema {
	return Schema{
		Name:      "job",
		PromptKey: "system-job",
		Fields: []Field{
			{Name: "company_name", Type: TypeString, Description: "hiring company", FallbackText: "Target Company"},
			{Name: "job_title", Type: TypeString, Description: "title of the role", FallbackText: "Position"},
			{Name: "required_skills", Type: TypeList, Description: "skills the posting requires", FallbackList: []string{"Relevant skills"}},
			{Name: "preferred_skills", Type: TypeList, Description: "skills listed as nice to have", FallbackList: nil},
			{Name: "experience_requirements", Type: TypeString, Description: "years or kind of experience required", FallbackText: "Relevant experience"},
			{Name: "education_requirements", Type: TypeString, Description: "required education", FallbackText: "Relevant education"},
			{Name: "key_responsibilities", Type: TypeList, Description: "main responsibilities of the role", FallbackList: []string{"Key responsibilities"}},
			{Name: "company_culture", Type: TypeString, Description: "culture and values mentioned in the posting", FallbackText: "Professional environment"},
			{Name: "benefits", Type: TypeList, Description: "benefits and perks", FallbackList: nil},
			{Name: "location", Type: TypeString, Description: "work location or remote policy", FallbackText: "Location"},
			{Name: "employment_type", Type: TypeString, Description: "full-time, part-time or contract", FallbackText: "Full-time"},
		},
	}
}

// MeetingSchema covers meeting transcripts.
func MeetingSchema() Schema {
	return Schema{
		Name:      "meeting",
		PromptKey: "system-meeting",
		Fields: []Field{
			{Name: "title", Type: TypeString, Description: "short descriptive title for the meeting", FallbackText: "Meeting"},
			{Name: "participants", Type: TypeList, Description: "names of people who spoke or were mentioned as attending", FallbackList: nil},
			{Name: "key_points", Type: TypeList, Description: "main discussion points", FallbackList: []string{"General discussion"}},
			{Name: "decisions", Type: TypeList, Description: "decisions that were made", FallbackList: nil},
			{Name: "action_items", Type: TypeList, Description: "follow-up tasks with owners when stated", FallbackList: []string{"No specific action items identified"}},
		},
	}
}

// WebPageSchema covers fetched web page text.
func WebPageSchema() Schema {
	return Schema{
		Name:      "webpage",
		PromptKey: "system-webpage",
		Fields: []Field{
			{Name: "title", Type: TypeString, Description: "title of the page", FallbackText: "Untitled Page"},
			{Name: "topics", Type: TypeList, Description: "main topics the page covers", FallbackList: []string{"General content"}},
			{Name: "audience", Type: TypeString, Description: "who the page is written for", FallbackText: "General readers"},
			{Name: "key_points", Type: TypeList, Description: "most important points made on the page", FallbackList: []string{"See page content"}},
		},
	}
}
