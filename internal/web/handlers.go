package web

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Gnanapravallika/AutoMate-Hub/internal/core"
	"github.com/Gnanapravallika/AutoMate-Hub/internal/logging"
)

// handleIndex serves the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(staticFiles, "static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleHealth is a liveness probe. It also reports batch slot usage so
// operators can see upload pressure without separate instrumentation.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"batches": s.limiter.Status(),
	})
}

// handleUpload accepts a multipart CSV upload, runs the batch pipeline,
// and returns the aggregate report as JSON. Batch-level failures (bad
// file, missing columns, empty file) return a 400 with a coded message;
// row-level problems are never an HTTP error, they live in the report.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	if err := s.limiter.Acquire(r.Context()); err != nil {
		if errors.Is(err, core.ErrTooManyBatches) {
			writeError(w, http.StatusTooManyRequests, core.UserMessage{
				Code:    "SRV001",
				Message: "Server is busy processing other batches",
				Action:  "Please try again in a moment",
			})
			return
		}
		// Client went away while waiting for a slot
		return
	}
	defer s.limiter.Release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Process.MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, core.UserMessage{
				Code:    "FILE003",
				Message: "File is too large",
				Action:  "Upload a smaller CSV file",
			})
			return
		}
		writeError(w, http.StatusBadRequest, core.UserMessage{
			Code:    "FILE004",
			Message: "No file was uploaded",
			Action:  "Select a CSV file and try again",
		})
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, core.UserMessage{
			Code:    "FILE005",
			Message: "Invalid file type. Please upload a CSV file.",
			Action:  "Only .csv files are accepted",
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, core.UserMessage{
				Code:    "FILE003",
				Message: "File is too large",
				Action:  "Upload a smaller CSV file",
			})
			return
		}
		log.Error("upload read failed", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, core.MapError(err))
		return
	}

	log.Info("processing upload", "filename", header.Filename, "size", len(data))

	report, err := s.service.ProcessCSV(r.Context(), data)
	if err != nil {
		log.Warn("batch rejected", "error", err, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, core.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, report)
}
