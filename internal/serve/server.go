// Package serve runs a small local web UI: upload a crawl export, get the
// generated index back. Intended for localhost use by non-CLI users, not
// for exposure to a network.
package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/llms-builder/models"
	"github.com/dtnitsch/llms-builder/pkg/pipeline"
)

// maxUploadBytes bounds the in-memory part of a multipart upload; larger
// files spill to disk.
const maxUploadBytes = 64 << 20

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>llmsb</title></head>
<body>
<h1>LLMS.txt Builder</h1>
<p>Upload a crawl CSV export (Screaming Frog internal_all.csv or similar).</p>
<form action="/generate" method="post" enctype="multipart/form-data">
  <p><input type="file" name="csv" accept=".csv" required></p>
  <p><label>Output name: <input type="text" name="output" value="llms"></label></p>
  <p><label><input type="checkbox" name="preview" value="1"> Preview only (no files written)</label></p>
  <p><label><input type="checkbox" name="enhance" value="1"> Enhance with LLM (needs OPENAI_API_KEY)</label></p>
  <p><button type="submit">Generate</button></p>
</form>
</body>
</html>
`

// Server wraps the pipeline behind three routes: the upload form, the
// generate endpoint, and a health check.
type Server struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	addr     string
	server   *http.Server
	mux      *http.ServeMux
}

func NewServer(addr string, p *pipeline.Pipeline, logger *slog.Logger) *Server {
	s := &Server{
		pipeline: p,
		logger:   logger,
		addr:     addr,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/generate", s.handleGenerate)
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.middleware(s.mux),
		ReadTimeout:  5 * time.Minute, // large CSV uploads
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.addr)
	fmt.Printf("Listening on http://%s\n", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.server.Shutdown(ctx)
}

// middleware logs each request, skipping health checks to reduce noise.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path != "/healthz" {
			s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
		}
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// handleGenerate accepts a multipart CSV upload and runs the pipeline on it.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("csv")
	if err != nil {
		respondError(w, http.StatusBadRequest, "csv file is required")
		return
	}
	defer file.Close()

	// The loader works on paths, so spool the upload to a temp file.
	tmpPath, err := s.spoolUpload(file, header.Filename)
	if err != nil {
		s.logger.Error("failed to spool upload", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(tmpPath)

	result := s.pipeline.Run(r.Context(), pipeline.Options{
		CSVPath:     tmpPath,
		OutputName:  r.FormValue("output"),
		Enhance:     r.FormValue("enhance") == "1",
		PreviewOnly: r.FormValue("preview") == "1",
	})

	status := http.StatusOK
	if !result.Success {
		status = statusForError(result)
	}
	respondJSON(w, status, result)
}

func (s *Server) spoolUpload(file io.Reader, name string) (string, error) {
	tmp, err := os.CreateTemp("", "llmsb-upload-*"+filepath.Ext(name))
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// statusForError maps pipeline error types to HTTP statuses: bad input is
// the client's problem, everything else is ours.
func statusForError(result *models.ProcessResult) int {
	switch result.ErrorType {
	case "validation", "load", "filter":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
