package domain

// DocumentInfo describes one uploaded document group as seen at the API
// boundary. ChunkCount is derived from storage, never persisted.
type DocumentInfo struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}

// Chunk is a single indexed fragment of an uploaded document. A chunk belongs
// to exactly one document group; its text and embedding are written together
// at ingestion time and never mutated afterwards.
type Chunk struct {
	ID         string `json:"id"`
	DocID      string `json:"doc_id"`
	ChunkIndex int    `json:"chunk_index"`
	Filename   string `json:"filename"`
	Text       string `json:"text"`
}

// SearchResult is a retrieval hit: a stored chunk with its cosine similarity
// to the query, higher is closer.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
