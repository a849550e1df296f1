// Package sqlite implements the durable vector store on a local SQLite
// database. Chunks, embeddings, and metadata live in a single table; ranking
// is brute-force cosine similarity, which is plenty for a single-process
// store of document-sized corpora.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"translaterag/internal/domain"
)

// Store persists document chunks with their embeddings. The similarity metric
// is fixed to cosine at construction; it is a structural property of the
// index, not a per-query choice.
type Store struct {
	db       *sql.DB
	embedder domain.Embedder
	logger   *slog.Logger
}

type Config struct {
	// Path is the database file location; parent directories are created.
	Path     string
	Embedder domain.Embedder
	Logger   *slog.Logger
}

func New(cfg Config) (*Store, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("vector store requires an embedder")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection: SQLite serialises writers anyway, and one conn keeps
	// concurrent Adds from interleaving rows of different groups.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, embedder: cfg.Embedder, logger: cfg.Logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chunks (
		id          TEXT PRIMARY KEY,
		doc_id      TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		filename    TEXT NOT NULL,
		content     TEXT NOT NULL,
		embedding   BLOB NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks(doc_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add embeds all chunks in one batch call and stores them under a fresh
// document group id. The embed call happens before any write and all rows go
// through a single transaction, so a failure anywhere leaves no partial
// group.
func (s *Store) Add(ctx context.Context, chunks []string, filename string) (string, error) {
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: no chunks to add", domain.ErrEmptyInput)
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return "", fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	id := uuid.New()
	docID := hex.EncodeToString(id[:])[:12]

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, doc_id, chunk_index, filename, content, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, chunk := range chunks {
		chunkID := fmt.Sprintf("%s_%d", docID, i)
		if _, err := stmt.ExecContext(ctx, chunkID, docID, i, filename, chunk, encodeVector(vectors[i]), now); err != nil {
			return "", fmt.Errorf("insert chunk %s: %w", chunkID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit insert: %w", err)
	}

	s.logger.Info("document indexed", "doc_id", docID, "filename", filename, "chunks", len(chunks))
	return docID, nil
}

// Query embeds text and returns the min(k, stored) most similar chunk texts,
// nearest first. An empty store returns an empty result, not an error.
func (s *Store) Query(ctx context.Context, text string, k int) ([]string, error) {
	results, err := s.Search(ctx, text, k)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Chunk.Text)
	}
	return texts, nil
}

// Search is Query with scores and chunk metadata retained, used by tests and
// any future reranking.
func (s *Store) Search(ctx context.Context, text string, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for query", len(vectors))
	}
	query := vectors[0]

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc_id, chunk_index, filename, content, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.DocID, &c.ChunkIndex, &c.Filename, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		score, err := cosineSimilarity(query, vec)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		results = append(results, domain.SearchResult{Chunk: c, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// ListGroups aggregates stored chunks into one summary per document group.
// Counts come straight from COUNT(*) so they always reflect actual storage.
func (s *Store) ListGroups(ctx context.Context) ([]domain.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, filename, COUNT(*) FROM chunks
		 GROUP BY doc_id, filename ORDER BY MIN(created_at), doc_id`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentInfo
	for rows.Next() {
		var d domain.DocumentInfo
		if err := rows.Scan(&d.ID, &d.Filename, &d.ChunkCount); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteGroup removes every chunk of the group and reports whether any
// existed. A missing group is not an error.
func (s *Store) DeleteGroup(ctx context.Context, docID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE doc_id = ?`, docID)
	if err != nil {
		return false, fmt.Errorf("delete group %s: %w", docID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.logger.Info("document deleted", "doc_id", docID, "chunks", n)
	}
	return n > 0, nil
}
