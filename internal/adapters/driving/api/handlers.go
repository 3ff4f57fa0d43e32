package api

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/logger"
)

// Response messages.
const (
	msgIngested       = "Files saved, text extracted, and vectorstore rebuilt."
	msgVectorsUpdated = "Vectorstore updated."
	msgNoTextsFound   = "No text files found."
	msgNoTexts        = "No text files to index."
	msgRebuilt        = "Vector index rebuilt successfully."
	msgIndexNotFound  = "Vector index not found. Run /reindex first."
	msgNoFiles        = "No files uploaded. Send one or more 'files' form fields."
	msgBadJSON        = "Request body must be JSON of the form {\"question\": \"...\"}."
	msgBlankQuestion  = "Question must not be empty."
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	HasKey bool   `json:"has_key"`
}

// ExtractedFileResponse reports one file of an ingest batch.
type ExtractedFileResponse struct {
	SourceFile        string  `json:"source_file"`
	ExtractedTextFile *string `json:"extracted_text_file"`
	TextPreview       string  `json:"text_preview"`
	Error             string  `json:"error,omitempty"`
}

// IngestResponse is returned by POST /ingest.
type IngestResponse struct {
	Message           string                  `json:"message"`
	SavedFiles        []string                `json:"saved_files"`
	ExtractedFiles    []ExtractedFileResponse `json:"extracted_files"`
	VectorstoreStatus string                  `json:"vectorstore_status"`
	IndexStatus       string                  `json:"index_status"`
}

// ReindexResponse is returned by POST /reindex.
type ReindexResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Documents *int   `json:"documents,omitempty"`
	Chunks    *int   `json:"chunks,omitempty"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is returned by POST /ask.
type AskResponse struct {
	Answer  string    `json:"answer"`
	Sources []*string `json:"sources"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	hasKey := s.ports.HasKey != nil && s.ports.HasKey()
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", HasKey: hasKey})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit.")
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFiles)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, msgNoFiles)
		return
	}

	uploads := make([]domain.Upload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Could not read upload "+fh.Filename+".")
			return
		}
		files = append(files, f)
		uploads = append(uploads, domain.Upload{Filename: fh.Filename, Content: f})
	}

	result, err := s.ports.Ingest.IngestBatch(r.Context(), uploads)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toIngestResponse(result))
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	build, err := s.ports.Index.BuildIndex(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if build.Status == domain.IndexStatusNoTexts {
		writeJSON(w, http.StatusOK, ReindexResponse{Status: string(build.Status), Message: msgNoTexts})
		return
	}
	writeJSON(w, http.StatusOK, ReindexResponse{
		Status:    string(build.Status),
		Message:   msgRebuilt,
		Documents: &build.Documents,
		Chunks:    &build.Chunks,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadJSON)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, msgBlankQuestion)
		return
	}

	answer, err := s.ports.Answer.Answer(r.Context(), req.Question)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []*string{}
	}
	writeJSON(w, http.StatusOK, AskResponse{Answer: answer.Text, Sources: sources})
}

func toIngestResponse(result *domain.IngestResult) IngestResponse {
	resp := IngestResponse{
		Message:        msgIngested,
		SavedFiles:     result.SavedFiles,
		ExtractedFiles: make([]ExtractedFileResponse, 0, len(result.Extracted)),
		IndexStatus:    string(result.Index.Status),
	}
	if resp.SavedFiles == nil {
		resp.SavedFiles = []string{}
	}

	resp.VectorstoreStatus = msgVectorsUpdated
	if result.Index.Status == domain.IndexStatusNoTexts {
		resp.VectorstoreStatus = msgNoTextsFound
	}

	for _, entry := range result.Extracted {
		file := ExtractedFileResponse{
			SourceFile:  entry.SourceFile,
			TextPreview: entry.TextPreview,
		}
		// An artifact that could not be saved is reported as null.
		if entry.ExtractedTextFile != "" {
			path := entry.ExtractedTextFile
			file.ExtractedTextFile = &path
		}
		if entry.Err != nil {
			file.Error = entry.Err.Error()
		}
		resp.ExtractedFiles = append(resp.ExtractedFiles, file)
	}
	return resp
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		writeError(w, http.StatusNotFound, msgIndexNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrEmbeddingUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("api: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("api: encode response: %v", err)
	}
}
