package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/blockview/blockview/internal/overlay"
	"github.com/blockview/blockview/internal/pipeline"
	"github.com/blockview/blockview/internal/session"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with 1MB headroom for form overhead.
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
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		jsonError(w, "file must be a PDF", http.StatusBadRequest)
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

	job := pipeline.NewJob(filename, r.FormValue("title"), data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// blockSummary is the listing shape for one block; content is served by
// the selection endpoint, not here.
type blockSummary struct {
	ID        string `json:"id"`
	BlockType string `json:"block_type"`
	PageIndex int    `json:"page_index"`
	Drawable  bool   `json:"drawable"`
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	blocks := make([]blockSummary, 0, sess.Doc.Len())
	for _, b := range sess.Doc.Blocks() {
		blocks = append(blocks, blockSummary{
			ID:        b.ID,
			BlockType: b.Type,
			PageIndex: b.PageIndex,
			Drawable:  b.HasPolygon(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id":  sess.ID,
		"filename":    sess.Filename,
		"title":       sess.Title,
		"page_count":  sess.Doc.PageCount(),
		"block_count": sess.Doc.Len(),
		"blocks":      blocks,
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if s.orchestrator.Sessions().Get(docID) == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	s.orchestrator.Sessions().Delete(docID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 0 {
		jsonError(w, "invalid page index", http.StatusBadRequest)
		return
	}

	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err = strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			jsonError(w, "invalid scale", http.StatusBadRequest)
			return
		}
	}

	rects := overlay.Project(sess.Doc, page, scale, sess.Selection.CurrentID())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"page_index": page,
		"scale":      scale,
		"rects":      rects,
	})
}

// session resolves the docID route param, writing a 404 when unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	docID := chi.URLParam(r, "docID")
	sess := s.orchestrator.Sessions().Get(docID)
	if sess == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return nil
	}
	return sess
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
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
