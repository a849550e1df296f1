// Package rag ties chunking, storage, and retrieval together: the ingestion
// path for uploaded documents and the retrieval seam that supplies context
// snippets to prompt composition.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"translaterag/internal/chunker"
	"translaterag/internal/domain"
)

// ContextSeparator joins retrieved snippets when they are injected into a
// prompt as one context block.
const ContextSeparator = "\n---\n"

const defaultTopK = 3

// Engine is the retrieval orchestrator. Default result counts and any future
// reranking or filtering policy belong here, not at call sites.
type Engine struct {
	store       domain.VectorStore
	indexPolicy chunker.Policy
	topK        int
	logger      *slog.Logger
}

type EngineConfig struct {
	Store       domain.VectorStore
	IndexPolicy chunker.Policy // zero value selects chunker.DefaultIndexPolicy
	TopK        int            // default results per query (default: 3)
	Logger      *slog.Logger
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("rag engine requires a vector store")
	}
	if cfg.IndexPolicy == (chunker.Policy{}) {
		cfg.IndexPolicy = chunker.DefaultIndexPolicy
	}
	if err := cfg.IndexPolicy.Validate(); err != nil {
		return nil, err
	}
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		store:       cfg.Store,
		indexPolicy: cfg.IndexPolicy,
		topK:        cfg.TopK,
		logger:      cfg.Logger,
	}, nil
}

// Ingest chunks extracted document text with the indexing policy and stores
// the chunks as one new document group. Text that yields no chunks after
// trimming is rejected before anything is written.
func (e *Engine) Ingest(ctx context.Context, filename, text string) (*domain.DocumentInfo, error) {
	chunks, err := chunker.Split(text, e.indexPolicy)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoExtractableText, filename)
	}

	docID, err := e.store.Add(ctx, chunks, filename)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	return &domain.DocumentInfo{ID: docID, Filename: filename, ChunkCount: len(chunks)}, nil
}

// QuerySimilar returns the texts of the stored chunks most similar to text,
// nearest first. n <= 0 selects the engine default. An empty store is not an
// error; it simply yields no context.
func (e *Engine) QuerySimilar(ctx context.Context, text string, n int) ([]string, error) {
	if n <= 0 {
		n = e.topK
	}
	return e.store.Query(ctx, text, n)
}

// List returns every stored document group.
func (e *Engine) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	return e.store.ListGroups(ctx)
}

// Delete removes a document group and reports whether it existed.
func (e *Engine) Delete(ctx context.Context, docID string) (bool, error) {
	return e.store.DeleteGroup(ctx, docID)
}

// BuildContext joins retrieved snippets into the single context block fed to
// prompt composition. No snippets means no context block.
func BuildContext(snippets []string) string {
	if len(snippets) == 0 {
		return ""
	}
	return strings.Join(snippets, ContextSeparator)
}
