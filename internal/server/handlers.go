package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"translaterag/internal/chunker"
	"translaterag/internal/domain"
	"translaterag/internal/extract"
	"translaterag/internal/language"
	"translaterag/internal/prompt"
	"translaterag/internal/rag"
)

type translateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	// UseRAG defaults to true when absent.
	UseRAG *bool `json:"use_rag"`
}

type translateResponse struct {
	TranslatedText  string   `json:"translated_text"`
	RAGContextUsed  bool     `json:"rag_context_used"`
	ContextSnippets []string `json:"context_snippets"`
}

type documentTranslateResponse struct {
	TranslatedChunks []string `json:"translated_chunks"`
	FullTranslation  string   `json:"full_translation"`
	SourceLanguage   string   `json:"source_language"`
	TargetLanguage   string   `json:"target_language"`
}

type askRequest struct {
	Question       string `json:"question"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	UseRAG         *bool  `json:"use_rag"`
}

type askResponse struct {
	Answer          string   `json:"answer"`
	ContextSnippets []string `json:"context_snippets"`
	Mode            string   `json:"mode"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"languages": language.Supported()})
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, domain.ErrEmptyInput)
		return
	}

	var snippets []string
	if req.UseRAG == nil || *req.UseRAG {
		var err error
		snippets, err = s.engine.QuerySimilar(r.Context(), req.Text, s.translateTopK)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	p := prompt.Translation(req.Text, req.SourceLanguage, req.TargetLanguage, rag.BuildContext(snippets))
	translated, err := s.generator.Generate(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, translateResponse{
		TranslatedText:  translated,
		RAGContextUsed:  len(snippets) > 0,
		ContextSnippets: emptyIfNil(snippets),
	})
}

func (s *Server) handleTranslateDocument(w http.ResponseWriter, r *http.Request) {
	sourceLang := r.FormValue("source_language")
	targetLang := r.FormValue("target_language")
	if sourceLang == "" || targetLang == "" {
		s.writeError(w, domain.ErrEmptyInput)
		return
	}

	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	text, err := extract.Extract(filename, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(text) == "" {
		s.writeError(w, domain.ErrNoExtractableText)
		return
	}

	// Zero overlap here: each character is translated exactly once.
	chunks, err := chunker.Split(text, s.translatePolicy)
	if err != nil {
		s.writeError(w, err)
		return
	}

	translated := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		p := prompt.Translation(chunk, sourceLang, targetLang, "")
		out, err := s.generator.Generate(r.Context(), p)
		if err != nil {
			s.writeError(w, err)
			return
		}
		translated = append(translated, out)
	}

	s.writeJSON(w, http.StatusOK, documentTranslateResponse{
		TranslatedChunks: translated,
		FullTranslation:  strings.Join(translated, "\n\n"),
		SourceLanguage:   sourceLang,
		TargetLanguage:   targetLang,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.writeError(w, domain.ErrEmptyInput)
		return
	}

	if req.UseRAG != nil && !*req.UseRAG {
		// Without retrieval the question is simply translated.
		p := prompt.Translation(req.Question, req.SourceLanguage, req.TargetLanguage, "")
		out, err := s.generator.Generate(r.Context(), p)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, askResponse{Answer: out, ContextSnippets: []string{}, Mode: "translation"})
		return
	}

	snippets, err := s.engine.QuerySimilar(r.Context(), req.Question, s.askTopK)
	if err != nil {
		s.writeError(w, err)
		return
	}

	p := prompt.Answer(req.Question, rag.BuildContext(snippets), req.SourceLanguage, req.TargetLanguage)
	answer, err := s.generator.Generate(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, askResponse{
		Answer:          answer,
		ContextSnippets: emptyIfNil(snippets),
		Mode:            "rag",
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	text, err := extract.Extract(filename, data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	info, err := s.engine.Ingest(r.Context(), filename, text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.engine.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.DocumentInfo{}
	}
	s.writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := r.PathValue("id")
	found, err := s.engine.Delete(r.Context(), docID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !found {
		s.writeJSONError(w, http.StatusNotFound, "document not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// readUpload pulls the multipart file out of the request, checks the
// extension against the allow-list before any parsing, and keeps a copy in
// the upload directory when one is configured.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid multipart request")
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "missing file field")
		return "", nil, false
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." {
		s.writeError(w, domain.ErrEmptyInput)
		return "", nil, false
	}
	if !extract.Supported(filename) {
		s.writeError(w, domain.ErrUnsupportedFileType)
		return "", nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "cannot read upload")
		return "", nil, false
	}

	if s.uploadDir != "" {
		if err := os.MkdirAll(s.uploadDir, 0o755); err == nil {
			if err := os.WriteFile(filepath.Join(s.uploadDir, filename), data, 0o644); err != nil {
				s.logger.Warn("cannot keep upload copy", "filename", filename, "err", err)
			}
		}
	}

	return filename, data, true
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps error kinds to status codes: input rejection is the
// caller's fault (400), a missing backend is retryable service trouble (503),
// everything else is a server error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFileType),
		errors.Is(err, domain.ErrNoExtractableText),
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrInvalidChunkPolicy):
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrBackendUnavailable):
		s.writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		s.writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
