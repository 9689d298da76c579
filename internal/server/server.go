// Package server exposes the formatting pipeline over HTTP: the caller
// posts a document URL and a YAML configuration, the server downloads
// the document, runs the pipeline and streams the formatted result
// back.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
	"github.com/aver1ch/formatingDocx/internal/pipeline"
)

const (
	// maxDownloadBytes caps the size of a fetched source document.
	maxDownloadBytes = 50 << 20

	downloadTimeout = 30 * time.Second

	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Server handles the formatting API.
type Server struct {
	logger *slog.Logger
	client *http.Client
}

// New builds a Server. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		logger: logger,
		client: &http.Client{Timeout: downloadTimeout},
	}
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/process_document", s.handleProcessDocument)

	return r
}

// ListenAndServe runs the server on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server listening", "addr", addr)

	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// ProcessRequest is the body for POST /api/process_document. Config is
// the raw YAML configuration text.
type ProcessRequest struct {
	DocumentURL string `json:"document_url"`
	Config      string `json:"config"`
}

func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.DocumentURL == "" || req.Config == "" {
		s.writeError(w, http.StatusBadRequest, "document_url and config are required")
		return
	}

	cfg, err := config.Parse([]byte(req.Config))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid config: %v", err))
		return
	}

	workDir, err := os.MkdirTemp("", "formatdocx-run-*")
	if err != nil {
		s.logger.Error("cannot create work dir", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")

		return
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.logger.Warn("work dir cleanup failed", "dir", workDir, "error", err)
		}
	}()

	inputPath := filepath.Join(workDir, uuid.NewString()+".docx")

	if err := s.download(r, req.DocumentURL, inputPath); err != nil {
		s.logger.Warn("document download failed", "url", req.DocumentURL, "error", err)
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to download document: %v", err))

		return
	}

	result, err := docx.Validate(inputPath)
	if err != nil {
		s.logger.Error("validation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")

		return
	}

	if !result.Valid {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("downloaded file is not a valid document: %v", result.Errors))

		return
	}

	outputPath := filepath.Join(workDir, uuid.NewString()+".docx")

	if err := s.process(inputPath, outputPath, cfg); err != nil {
		s.logger.Error("document processing failed", "error", err)
		s.writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("document processing failed: %v", err))

		return
	}

	s.sendDocument(w, r, outputPath)
}

// download fetches url into path, enforcing the size cap. The request
// inherits the caller's context so client disconnects cancel it.
func (s *Server) download(r *http.Request, url, path string) error {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.Create(path) //nolint:gosec // path is under our temp dir
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if n > maxDownloadBytes {
		return errors.New("document exceeds size limit")
	}

	return f.Close()
}

// process runs the full pipeline over the downloaded document and saves
// the result.
func (s *Server) process(inputPath, outputPath string, cfg *config.Document) error {
	session, err := docx.Open(inputPath)
	if err != nil {
		return err
	}

	p := pipeline.New(session, cfg, s.logger)
	if err := p.Execute(true); err != nil {
		return err
	}

	return p.Session().Save(outputPath)
}

// sendDocument streams the formatted file as an attachment.
func (s *Server) sendDocument(w http.ResponseWriter, r *http.Request, path string) {
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="formatted_document.docx"`)

	http.ServeFile(w, r, path)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
