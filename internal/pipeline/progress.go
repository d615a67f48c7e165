package pipeline

// Pipeline stages, in execution order.
const (
	StageIngestion    = "ingestion"
	StageExtraction   = "extraction"
	StageSynthesis    = "synthesis"
	StagePresentation = "presentation"
)

// ProgressEvent represents a progress update during pipeline execution.
// Events are advisory: consumers may drop them without affecting the run.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

func (p *Pipeline) emit(runID, stage, message string) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{Stage: stage, Message: message, RunID: runID})
	}
	if p.printer != nil {
		p.printer.PrintStep(stage, message)
	}
}
