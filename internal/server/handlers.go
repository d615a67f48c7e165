package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/llm-workbench/internal/ingestion"
	"github.com/jonathan/llm-workbench/internal/pipeline"
)

// Multipart size ceilings. Generous over the per-file limits so the pipeline's
// own size checks produce the user-facing error.
const (
	documentFormLimit = 8 << 20
	audioFormLimit    = 64 << 20
)

type resultResponse struct {
	RunID       string `json:"run_id"`
	Subject     string `json:"subject,omitempty"`
	Result      string `json:"result"`
	WordCount   int    `json:"word_count"`
	GeneratedAt string `json:"generated_at"`
}

func toResponse(out *pipeline.Output) resultResponse {
	return resultResponse{
		RunID:       out.RunID,
		Subject:     out.Subject,
		Result:      out.Result.Markdown,
		WordCount:   out.Result.WordCount,
		GeneratedAt: out.Result.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseCoverLetterRequest(w http.ResponseWriter, r *http.Request) (pipeline.CoverLetterRequest, error) {
	var req pipeline.CoverLetterRequest

	r.Body = http.MaxBytesReader(w, r.Body, documentFormLimit)
	if err := r.ParseMultipartForm(documentFormLimit); err != nil {
		return req, &ErrValidation{Field: "body", Message: "expected multipart form data"}
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		return req, &ErrValidation{Field: "resume", Message: "resume file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, &ErrValidation{Field: "resume", Message: "could not read upload"}
	}

	req.Resume = ingestion.RawInput{
		Kind: ingestion.DetectKind(header.Filename),
		Name: header.Filename,
		Data: data,
	}
	req.JobText = r.FormValue("job_description")
	req.JobURL = r.FormValue("job_url")
	if req.JobText == "" && req.JobURL == "" {
		return req, &ErrValidation{Field: "job_description", Message: "job_description or job_url is required"}
	}
	return req, nil
}

func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	req, err := parseCoverLetterRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := s.newRunner(nil).CoverLetter(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(out))
}

func (s *Server) handleCoverLetterStream(w http.ResponseWriter, r *http.Request) {
	req, err := parseCoverLetterRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		writeError(w, err)
		return
	}

	runner := s.newRunner(func(ev pipeline.ProgressEvent) {
		sse.WriteEvent("progress", ev) //nolint:errcheck
	})
	out, err := runner.CoverLetter(r.Context(), req)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteEvent("result", toResponse(out)) //nolint:errcheck
}

func parseMinutesRequest(w http.ResponseWriter, r *http.Request) (pipeline.MinutesRequest, error) {
	var req pipeline.MinutesRequest

	r.Body = http.MaxBytesReader(w, r.Body, audioFormLimit)
	if err := r.ParseMultipartForm(audioFormLimit); err != nil {
		return req, &ErrValidation{Field: "body", Message: "expected multipart form data"}
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		return req, &ErrValidation{Field: "audio", Message: "audio file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, &ErrValidation{Field: "audio", Message: "could not read upload"}
	}

	req.Audio = ingestion.RawInput{
		Kind: ingestion.KindAudio,
		Name: header.Filename,
		Data: data,
	}
	req.Title = r.FormValue("title")
	if p := strings.TrimSpace(r.FormValue("participants")); p != "" {
		for _, name := range strings.Split(p, ",") {
			if name = strings.TrimSpace(name); name != "" {
				req.Participants = append(req.Participants, name)
			}
		}
	}
	return req, nil
}

func (s *Server) handleMinutes(w http.ResponseWriter, r *http.Request) {
	req, err := parseMinutesRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := s.newRunner(nil).Minutes(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(out))
}

func (s *Server) handleMinutesStream(w http.ResponseWriter, r *http.Request) {
	req, err := parseMinutesRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		writeError(w, err)
		return
	}

	runner := s.newRunner(func(ev pipeline.ProgressEvent) {
		sse.WriteEvent("progress", ev) //nolint:errcheck
	})
	out, err := runner.Minutes(r.Context(), req)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteEvent("result", toResponse(out)) //nolint:errcheck
}

type summarizeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var body summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "expected JSON with a url field"})
		return
	}
	if err := s.validate.Struct(body); err != nil {
		writeError(w, &ErrValidation{Field: "url", Message: "a valid absolute URL is required"})
		return
	}

	out, err := s.newRunner(nil).Summarize(r.Context(), pipeline.SummarizeRequest{URL: body.URL})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(out))
}

type tutorRequest struct {
	Question string `json:"question" validate:"required,min=3"`
}

func (s *Server) handleTutor(w http.ResponseWriter, r *http.Request) {
	var body tutorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "expected JSON with a question field"})
		return
	}
	if err := s.validate.Struct(body); err != nil {
		writeError(w, &ErrValidation{Field: "question", Message: "a question is required"})
		return
	}

	out, err := s.newRunner(nil).Tutor(r.Context(), pipeline.TutorRequest{Question: body.Question})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(out))
}

func (s *Server) handleTutorStream(w http.ResponseWriter, r *http.Request) {
	var body tutorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, &ErrValidation{Field: "body", Message: "expected JSON with a question field"})
		return
	}
	if err := s.validate.Struct(body); err != nil {
		writeError(w, &ErrValidation{Field: "question", Message: "a question is required"})
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := s.newRunner(nil).Tutor(r.Context(), pipeline.TutorRequest{
		Question: body.Question,
		OnChunk:  sse.WriteChunk,
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteEvent("result", toResponse(out)) //nolint:errcheck
}
