// Package pipeline provides the high-level orchestration for each utility:
// ingestion, structured extraction, synthesis, presentation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/llm-workbench/internal/config"
	"github.com/jonathan/llm-workbench/internal/extraction"
	"github.com/jonathan/llm-workbench/internal/ingestion"
	"github.com/jonathan/llm-workbench/internal/llm"
	"github.com/jonathan/llm-workbench/internal/observability"
	"github.com/jonathan/llm-workbench/internal/render"
	"github.com/jonathan/llm-workbench/internal/synthesis"
	"github.com/jonathan/llm-workbench/internal/transcribe"
)

// Pipeline wires the four stages together. One Pipeline serves many runs;
// nothing from a run outlives its call.
type Pipeline struct {
	extractor   *extraction.Extractor
	synthesizer *synthesis.Synthesizer
	transcriber transcribe.Transcriber
	printer     *observability.Printer
	useBrowser  bool
	verbose     bool
	onProgress  ProgressCallback
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTranscriber sets the transcription client used for audio ingestion.
func WithTranscriber(t transcribe.Transcriber) Option {
	return func(p *Pipeline) { p.transcriber = t }
}

// WithBrowser enables the headless-browser fallback for URL ingestion.
func WithBrowser(enabled bool) Option {
	return func(p *Pipeline) { p.useBrowser = enabled }
}

// WithVerbose enables formatted stage output to w.
func WithVerbose(w io.Writer) Option {
	return func(p *Pipeline) {
		p.verbose = true
		p.printer = observability.NewPrinter(w)
		p.extractor.WithVerbose(true)
	}
}

// WithProgress registers a callback that receives stage events.
func WithProgress(cb ProgressCallback) Option {
	return func(p *Pipeline) { p.onProgress = cb }
}

// New builds a pipeline on top of an LLM client.
func New(client llm.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   extraction.NewExtractor(client),
		synthesizer: synthesis.NewSynthesizer(client),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// WithProgressCallback returns a shallow copy of the pipeline with its own
// progress callback, sharing the underlying clients. Used by the server to
// give each streaming request its own event sink.
func (p *Pipeline) WithProgressCallback(cb ProgressCallback) *Pipeline {
	clone := *p
	clone.onProgress = cb
	return &clone
}

// Output is the result of one pipeline run.
type Output struct {
	RunID   string
	Subject string
	Result  *synthesis.GenerationResult
}

// Display returns the result as display-ready markdown with its metadata header.
func (o *Output) Display() string {
	return render.Display(o.Result, o.Subject)
}

// CoverLetterRequest holds the inputs for a cover letter run: a resume file
// plus the job posting as either pasted text or a URL.
type CoverLetterRequest struct {
	Resume  ingestion.RawInput
	JobText string
	JobURL  string
}

// CoverLetter runs the cover letter pipeline. Resume and job extraction run
// concurrently once both texts are ingested.
func (p *Pipeline) CoverLetter(ctx context.Context, req CoverLetterRequest) (*Output, error) {
	runID := uuid.NewString()

	p.emit(runID, StageIngestion, "reading resume "+req.Resume.Name)
	resumeText, err := ingestion.IngestDocument(req.Resume)
	if err != nil {
		return nil, err
	}

	var jobText string
	if req.JobURL != "" {
		p.emit(runID, StageIngestion, "fetching job posting from "+req.JobURL)
		page, err := ingestion.IngestURL(ctx, req.JobURL, p.useBrowser, p.verbose)
		if err != nil {
			return nil, err
		}
		jobText = page.Text
	} else {
		jobText = ingestion.CleanText(req.JobText)
	}

	p.emit(runID, StageExtraction, "extracting resume and job details")
	var resumeExtract, jobExtract *extraction.StructuredExtract
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resumeExtract = p.extractor.Extract(gCtx, extraction.ResumeSchema(), resumeText)
		return nil
	})
	g.Go(func() error {
		jobExtract = p.extractor.Extract(gCtx, extraction.JobSchema(), jobText)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if p.printer != nil {
		p.printer.PrintExtract(resumeExtract)
		p.printer.PrintExtract(jobExtract)
	}

	p.emit(runID, StageSynthesis, "writing cover letter")
	result, err := p.synthesizer.CoverLetter(ctx, resumeExtract, jobExtract)
	if err != nil {
		return nil, err
	}
	if p.printer != nil {
		p.printer.PrintResult(result)
	}

	subject := fmt.Sprintf("%s at %s", jobExtract.Get("job_title"), jobExtract.Get("company_name"))
	p.emit(runID, StagePresentation, "cover letter ready")
	return &Output{RunID: runID, Subject: subject, Result: result}, nil
}

// MinutesRequest holds the inputs for a meeting minutes run. Title and
// Participants, when set, override whatever extraction finds.
type MinutesRequest struct {
	Audio        ingestion.RawInput
	Title        string
	Participants []string
}

// Minutes runs the meeting minutes pipeline: transcribe, extract, summarize.
func (p *Pipeline) Minutes(ctx context.Context, req MinutesRequest) (*Output, error) {
	runID := uuid.NewString()

	if p.transcriber == nil {
		return nil, &config.ConfigurationError{Field: "TRANSCRIBE_API_KEY", Message: "transcription service not configured"}
	}

	p.emit(runID, StageIngestion, "transcribing "+req.Audio.Name)
	transcript, err := ingestion.IngestAudio(ctx, req.Audio, p.transcriber)
	if err != nil {
		return nil, err
	}

	p.emit(runID, StageExtraction, "extracting meeting structure")
	meeting := p.extractor.Extract(ctx, extraction.MeetingSchema(), transcript)
	if req.Title != "" {
		meeting.Fields["title"] = extraction.FieldValue{Source: extraction.SourceExtracted, Text: req.Title}
	}
	if len(req.Participants) > 0 {
		meeting.Fields["participants"] = extraction.FieldValue{Source: extraction.SourceExtracted, List: req.Participants}
	}
	if p.printer != nil {
		p.printer.PrintExtract(meeting)
	}

	p.emit(runID, StageSynthesis, "writing minutes")
	result, err := p.synthesizer.MeetingMinutes(ctx, meeting, transcript)
	if err != nil {
		return nil, err
	}
	if p.printer != nil {
		p.printer.PrintResult(result)
	}

	p.emit(runID, StagePresentation, "minutes ready")
	return &Output{RunID: runID, Subject: meeting.Get("title"), Result: result}, nil
}

// SummarizeRequest holds the inputs for a website summary run.
type SummarizeRequest struct {
	URL string
}

// Summarize runs the website summary pipeline.
func (p *Pipeline) Summarize(ctx context.Context, req SummarizeRequest) (*Output, error) {
	runID := uuid.NewString()

	p.emit(runID, StageIngestion, "fetching "+req.URL)
	page, err := ingestion.IngestURL(ctx, req.URL, p.useBrowser, p.verbose)
	if err != nil {
		return nil, err
	}

	p.emit(runID, StageExtraction, "extracting page structure")
	extract := p.extractor.Extract(ctx, extraction.WebPageSchema(), page.Text)
	if page.Title != "" {
		extract.Fields["title"] = extraction.FieldValue{Source: extraction.SourceExtracted, Text: page.Title}
	}
	if p.printer != nil {
		p.printer.PrintExtract(extract)
	}

	p.emit(runID, StageSynthesis, "summarizing page")
	result, err := p.synthesizer.WebsiteSummary(ctx, extract, page.Text)
	if err != nil {
		return nil, err
	}

	p.emit(runID, StagePresentation, "summary ready")
	return &Output{RunID: runID, Subject: extract.Get("title"), Result: result}, nil
}

// TutorRequest holds the inputs for a tutor run. OnChunk, when set, receives
// model deltas as they stream in.
type TutorRequest struct {
	Question string
	OnChunk  llm.StreamFunc
}

// Tutor answers a free-form question, optionally streaming the answer.
func (p *Pipeline) Tutor(ctx context.Context, req TutorRequest) (*Output, error) {
	runID := uuid.NewString()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, &synthesis.GenerationFailure{Task: "tutor", Message: "the question is empty"}
	}

	p.emit(runID, StageSynthesis, "answering question")
	var result *synthesis.GenerationResult
	var err error
	if req.OnChunk != nil {
		result, err = p.synthesizer.TutorAnswerStream(ctx, question, req.OnChunk)
	} else {
		result, err = p.synthesizer.TutorAnswer(ctx, question)
	}
	if err != nil {
		return nil, err
	}

	p.emit(runID, StagePresentation, "answer ready")
	return &Output{RunID: runID, Subject: question, Result: result}, nil
}
