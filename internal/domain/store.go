package domain

import "context"

// VectorStore persists document chunks with their embeddings and supports
// similarity retrieval and group deletion. Implementations must tolerate
// concurrent calls and must not leave a partially stored group behind when an
// Add fails part-way.
type VectorStore interface {
	// Add embeds all chunks in one batch and stores them under a freshly
	// generated document group id, which it returns. Calling Add with no
	// chunks is a caller error.
	Add(ctx context.Context, chunks []string, filename string) (string, error)

	// Query embeds text and returns the texts of the min(k, stored) nearest
	// chunks by cosine similarity, nearest first. An empty store yields an
	// empty result, not an error.
	Query(ctx context.Context, text string, k int) ([]string, error)

	// ListGroups aggregates stored chunks into per-document summaries with
	// live chunk counts.
	ListGroups(ctx context.Context) ([]DocumentInfo, error)

	// DeleteGroup removes every chunk of the given document group and reports
	// whether any existed.
	DeleteGroup(ctx context.Context, docID string) (bool, error)
}
