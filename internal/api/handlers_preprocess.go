package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/textprep/internal/article"
	"github.com/dgallion1/textprep/internal/clean"
	"github.com/dgallion1/textprep/internal/pipeline"
	"github.com/dgallion1/textprep/internal/reader"
)

// preprocessRequest is the synchronous single-document request body.
type preprocessRequest struct {
	Article        *article.Document `json:"article"`
	CleaningConfig *clean.Overrides  `json:"cleaning_config"`
}

// batchRequest is the multi-document request body.
type batchRequest struct {
	Documents      []*article.Document `json:"documents"`
	CleaningConfig *clean.Overrides    `json:"cleaning_config"`
	Async          bool                `json:"async"`
}

func (s *Server) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	var req preprocessRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Article == nil {
		jsonError(w, "article is required", http.StatusBadRequest)
		return
	}
	if err := s.validateOverrides(req.CleaningConfig); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.orchestrator.Engine().Process(r.Context(), req.Article, req.CleaningConfig)
	if err != nil {
		var verr *article.ValidationError
		if errors.As(err, &verr) {
			jsonError(w, verr.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("preprocessing failed", "document_id", req.Article.DocumentID, "error", err)
		jsonError(w, "preprocessing failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "documents must contain at least one document", http.StatusBadRequest)
		return
	}
	if len(req.Documents) > s.cfg.MaxBatchSize {
		jsonError(w, fmt.Sprintf("batch size %d exceeds maximum %d, split the batch into smaller chunks",
			len(req.Documents), s.cfg.MaxBatchSize), http.StatusRequestEntityTooLarge)
		return
	}
	if err := s.validateOverrides(req.CleaningConfig); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Async {
		s.submitJob(w, pipeline.NewJob(req.Documents, req.CleaningConfig), len(req.Documents), 0)
		return
	}

	results := s.orchestrator.Engine().ProcessBatch(r.Context(), req.Documents, req.CleaningConfig, s.cfg.BatchConcurrency)
	views := make([]pipeline.ResultView, 0, len(results))
	succeeded := 0
	for _, res := range results {
		v := pipeline.ResultView{DocumentID: res.DocumentID, Status: "ok", Record: res.Record}
		if res.Err != nil {
			v.Status = "error"
			v.Error = res.Err.Error()
			v.Record = nil
		} else {
			succeeded++
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     len(views),
		"succeeded": succeeded,
		"failed":    len(views) - succeeded,
		"results":   views,
	})
}

func (s *Server) handleBatchFile(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with some slack for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !reader.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	var over *clean.Overrides
	if v := r.FormValue("cleaning_config"); v != "" {
		over = &clean.Overrides{}
		if err := decodeJSON(strings.NewReader(v), over); err != nil {
			jsonError(w, "invalid cleaning_config: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.validateOverrides(over); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	docs, skipped, err := reader.Documents(data, filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(docs) == 0 {
		jsonError(w, "no valid documents found in the uploaded file", http.StatusBadRequest)
		return
	}
	if len(docs) > s.cfg.MaxBatchSize {
		jsonError(w, fmt.Sprintf("file contains %d documents, exceeding maximum %d, split the file into smaller chunks",
			len(docs), s.cfg.MaxBatchSize), http.StatusRequestEntityTooLarge)
		return
	}
	if skipped > 0 {
		s.log.Warn("skipped malformed lines in batch file", "filename", filename, "skipped", skipped)
	}

	job := pipeline.NewJob(docs, over)
	job.Filename = filename
	s.submitJob(w, job, len(docs), skipped)
}

// submitJob queues an async job and writes the 202 response.
func (s *Server) submitJob(w http.ResponseWriter, job *pipeline.Job, total, skipped int) {
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	snap := job.Snapshot()
	body := map[string]any{
		"task_id":         snap.ID,
		"status":          snap.Status,
		"total_documents": total,
		"poll_url":        "/v1/preprocess/status/" + snap.ID,
	}
	if snap.Filename != "" {
		body["filename"] = snap.Filename
	}
	if skipped > 0 {
		body["skipped_lines"] = skipped
	}
	writeJSON(w, http.StatusAccepted, body)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	job := s.orchestrator.GetJob(taskID)
	if job == nil {
		jsonError(w, "task not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// validateOverrides rejects override payloads that would merge into an
// invalid cleaning configuration, so bad requests fail before any work.
func (s *Server) validateOverrides(over *clean.Overrides) error {
	if over == nil {
		return nil
	}
	return clean.Merge(s.orchestrator.Engine().Defaults(), over).Validate()
}

func decodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
