package handlers

import (
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/lunoai/luno/internal/services"
)

// multipartMemory caps the in-memory portion of a multipart parse; larger
// parts spill to disk.
const multipartMemory = 32 << 20

type DocumentHandler struct {
	docs *services.DocumentService
}

func NewDocumentHandler(docs *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

type uploadResult struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks,omitempty"`
	Error  string `json:"error,omitempty"`
}

type uploadResponse struct {
	Results []uploadResult `json:"results"`
	Indexed int            `json:"indexed"`
	Failed  int            `json:"failed"`
}

// UploadDocuments ingests every "files" part of a multipart form. Documents
// fail independently; the response carries a per-file outcome and the
// status is 200 as long as at least one document landed.
func (h *DocumentHandler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "no files provided (use form field \"files\")", http.StatusBadRequest)
		return
	}

	files := make([]services.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			http.Error(w, "unreadable file part: "+header.Filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "unreadable file part: "+header.Filename, http.StatusBadRequest)
			return
		}
		files = append(files, services.File{Name: filepath.Base(header.Filename), Data: data})
	}

	results := h.docs.IngestAll(r.Context(), files)

	resp := uploadResponse{Results: make([]uploadResult, len(results))}
	for i, res := range results {
		out := uploadResult{Source: res.Source, Chunks: res.Chunks}
		if res.Err != nil {
			out.Error = res.Err.Error()
			resp.Failed++
		} else {
			resp.Indexed++
		}
		resp.Results[i] = out
	}

	status := http.StatusOK
	if resp.Indexed == 0 {
		status = statusFor(results[0].Err)
	}
	writeJSON(w, status, resp)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	sources, err := h.docs.Sources(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sources": sources,
		"chunks":  h.docs.Count(r.Context()),
	})
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	source, err := url.PathUnescape(chi.URLParam(r, "source"))
	if err != nil || source == "" {
		http.Error(w, "invalid source", http.StatusBadRequest)
		return
	}

	removed, err := h.docs.Delete(r.Context(), source)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": source})
}

func (h *DocumentHandler) ClearDocuments(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
