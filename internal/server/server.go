// Package server exposes the service over HTTP. Handlers validate input,
// call the retrieval engine and generation backend, and map error kinds to
// status codes; all translation and RAG logic lives below this layer.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"translaterag/internal/chunker"
	"translaterag/internal/domain"
	"translaterag/internal/rag"
)

const (
	// Uploads are whole documents; cap them well above typical PDFs.
	maxUploadSize = 20 << 20
	maxBodySize   = 1 << 20
)

// Server is the HTTP front of the service.
type Server struct {
	host            string
	port            int
	engine          *rag.Engine
	generator       domain.Generator
	uploadDir       string
	translatePolicy chunker.Policy
	translateTopK   int
	askTopK         int
	logger          *slog.Logger
	server          *http.Server
}

type Config struct {
	Host            string
	Port            int
	Engine          *rag.Engine
	Generator       domain.Generator
	UploadDir       string
	TranslatePolicy chunker.Policy // zero value selects chunker.DefaultTranslatePolicy
	TranslateTopK   int
	AskTopK         int
	Logger          *slog.Logger
}

func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("server requires a rag engine")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("server requires a generator")
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.TranslatePolicy == (chunker.Policy{}) {
		cfg.TranslatePolicy = chunker.DefaultTranslatePolicy
	}
	if err := cfg.TranslatePolicy.Validate(); err != nil {
		return nil, err
	}
	if cfg.TranslateTopK <= 0 {
		cfg.TranslateTopK = 3
	}
	if cfg.AskTopK <= 0 {
		cfg.AskTopK = 5
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		host:            cfg.Host,
		port:            cfg.Port,
		engine:          cfg.Engine,
		generator:       cfg.Generator,
		uploadDir:       cfg.UploadDir,
		translatePolicy: cfg.TranslatePolicy,
		translateTopK:   cfg.TranslateTopK,
		askTopK:         cfg.AskTopK,
		logger:          cfg.Logger,
	}, nil
}

// Handler builds the route table. Split from Start so tests can drive the
// mux through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/languages", s.handleLanguages)
	mux.HandleFunc("POST /api/translate", s.handleTranslate)
	mux.HandleFunc("POST /api/translate-document", s.handleTranslateDocument)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("POST /api/documents/upload", s.handleUpload)
	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)

	return s.logRequests(mux)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}
