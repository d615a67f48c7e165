package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/extraction"
	"github.com/jonathan/llm-workbench/internal/ingestion"
	"github.com/jonathan/llm-workbench/internal/llm"
	"github.com/jonathan/llm-workbench/internal/prompts"
)

// Synthesizer generates documents from extracts using the advanced model tier.
type Synthesizer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewSynthesizer builds a synthesizer on the advanced tier, where long-form
// generation runs by default.
func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{client: client, tier: llm.TierAdvanced}
}

// WithTier overrides the model tier used for generation calls.
func (s *Synthesizer) WithTier(tier llm.ModelTier) *Synthesizer {
	s.tier = tier
	return s
}

// CoverLetter writes a cover letter from a resume extract and a job extract.
// The document always opens with the same title for the same extracts.
func (s *Synthesizer) CoverLetter(ctx context.Context, resume, job *extraction.StructuredExtract) (*GenerationResult, error) {
	prompt := prompts.Format(prompts.MustGet("synthesis.json", "cover-letter"), map[string]string{
		"Name":             resume.Get("name"),
		"Summary":          resume.Get("summary"),
		"Skills":           resume.Get("skills"),
		"Experience":       resume.Get("experience"),
		"Education":        resume.Get("education"),
		"Company":          job.Get("company_name"),
		"Title":            job.Get("job_title"),
		"RequiredSkills":   job.Get("required_skills"),
		"Responsibilities": job.Get("key_responsibilities"),
		"Culture":          job.Get("company_culture"),
	})

	body, err := s.generate(ctx, "cover letter", prompt)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("# Cover Letter for %s at %s", job.Get("job_title"), job.Get("company_name"))
	return NewResult(title + "\n\n" + body), nil
}

// MeetingMinutes writes minutes from a meeting extract and the raw transcript.
// Summary and action items are two separate generation calls; either failing
// fails the document.
func (s *Synthesizer) MeetingMinutes(ctx context.Context, meeting *extraction.StructuredExtract, transcript string) (*GenerationResult, error) {
	participants := meeting.Get("participants")

	summaryPrompt := prompts.Format(prompts.MustGet("synthesis.json", "meeting-summary"), map[string]string{
		"Title":         meeting.Get("title"),
		"Participants":  participants,
		"Transcription": transcript,
	})
	summary, err := s.generate(ctx, "meeting minutes", summaryPrompt)
	if err != nil {
		return nil, err
	}

	actionsPrompt := prompts.Format(prompts.MustGet("synthesis.json", "action-items"), map[string]string{
		"Participants":  participants,
		"Transcription": transcript,
	})
	actions, err := s.generate(ctx, "meeting minutes", actionsPrompt)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("# Meeting Minutes\n\n")
	b.WriteString("## Meeting Summary\n\n")
	b.WriteString(summary)
	b.WriteString("\n\n## Action Items & Next Steps\n\n")
	b.WriteString(actions)
	return NewResult(b.String()), nil
}

// WebsiteSummary summarizes fetched page text. Text beyond the summary window
// is truncated before the call; the key points section comes from the extract
// so the document shape does not depend on the model's formatting.
func (s *Synthesizer) WebsiteSummary(ctx context.Context, page *extraction.StructuredExtract, text string) (*GenerationResult, error) {
	text = ingestion.Truncate(text, config.MaxSummaryChars)
	prompt := prompts.Format(prompts.MustGet("synthesis.json", "website-summary"), map[string]string{
		"Title":  page.Get("title"),
		"Topics": page.Get("topics"),
		"Text":   text,
	})
	body, err := s.generate(ctx, "website summary", prompt)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("# Website Summary\n\n")
	b.WriteString(body)
	b.WriteString("\n\n## Key Points\n\n")
	for _, p := range page.List("key_points") {
		b.WriteString("- " + p + "\n")
	}
	return NewResult(b.String()), nil
}

// TutorAnswer answers a free-form question.
func (s *Synthesizer) TutorAnswer(ctx context.Context, question string) (*GenerationResult, error) {
	body, err := s.generate(ctx, "tutor", s.tutorPrompt(question))
	if err != nil {
		return nil, err
	}
	return NewResult("# Answer\n\n" + body), nil
}

// TutorAnswerStream answers a question, forwarding model chunks to fn as they
// arrive. fn receives raw deltas; the returned result carries the full text
// under the usual header.
func (s *Synthesizer) TutorAnswerStream(ctx context.Context, question string, fn llm.StreamFunc) (*GenerationResult, error) {
	body, err := s.client.GenerateStream(ctx, s.tutorPrompt(question), s.tier, fn)
	if err != nil {
		return nil, &GenerationFailure{Task: "tutor", Cause: err}
	}
	if semanticallyEmpty(body) {
		return nil, &GenerationFailure{Task: "tutor", Message: "the model returned an empty response"}
	}
	return NewResult("# Answer\n\n" + strings.TrimSpace(body)), nil
}

func (s *Synthesizer) tutorPrompt(question string) string {
	return prompts.Format(prompts.MustGet("synthesis.json", "tutor-answer"), map[string]string{
		"Question": question,
	})
}

func (s *Synthesizer) generate(ctx context.Context, task, prompt string) (string, error) {
	body, err := s.client.GenerateContent(ctx, prompt, s.tier)
	if err != nil {
		return "", &GenerationFailure{Task: task, Cause: err}
	}
	body = strings.TrimSpace(body)
	if semanticallyEmpty(body) {
		return "", &GenerationFailure{Task: task, Message: "the model returned an empty response"}
	}
	return body, nil
}
