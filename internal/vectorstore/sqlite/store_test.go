package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"translaterag/internal/domain"
)

// fakeEmbedder returns fixed vectors per text so ranking is predictable.
type fakeEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, fmt.Errorf("%w: embedder down", domain.ErrBackendUnavailable)
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float32{1, 1, 1}
		}
		out[i] = v
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newTestStore(t *testing.T, emb domain.Embedder) *Store {
	t.Helper()
	s, err := New(Config{
		Path:     filepath.Join(t.TempDir(), "vectors.db"),
		Embedder: emb,
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAdd_ThenListGroups(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	docID, err := s.Add(ctx, []string{"a", "b", "c"}, "doc.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(docID) != 12 {
		t.Errorf("doc id should be 12 hex chars, got %q", docID)
	}

	docs, err := s.ListGroups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 group, got %d", len(docs))
	}
	if docs[0].ID != docID || docs[0].Filename != "doc.txt" || docs[0].ChunkCount != 3 {
		t.Errorf("unexpected group: %+v", docs[0])
	}
}

func TestAdd_EmptyChunksRejected(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	if _, err := s.Add(context.Background(), nil, "doc.txt"); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestAdd_SingleChunkStillReturnsGroupID(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	docID, err := s.Add(context.Background(), []string{"only one"}, "tiny.txt")
	if err != nil {
		t.Fatal(err)
	}
	if docID == "" {
		t.Error("single-chunk add must still return a group id")
	}
}

func TestAdd_EmbedderFailureLeavesNoPartialState(t *testing.T) {
	emb := &fakeEmbedder{fail: true}
	s := newTestStore(t, emb)
	ctx := context.Background()

	if _, err := s.Add(ctx, []string{"a", "b"}, "doc.txt"); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}

	emb.fail = false
	docs, err := s.ListGroups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("failed ingestion must not leave chunks behind, found %d groups", len(docs))
	}
}

func TestQuery_EmptyStoreReturnsEmpty(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	texts, err := s.Query(context.Background(), "anything", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 0 {
		t.Errorf("empty store must return empty result, got %v", texts)
	}
}

func TestQuery_RankingNearestFirst(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"cats are mammals":   {1, 0, 0},
		"go is a language":   {0, 1, 0},
		"the sky looks blue": {0, 0, 1},
		"tell me about go":   {0, 1, 0}, // identical to one stored chunk
	}}
	s := newTestStore(t, emb)
	ctx := context.Background()

	if _, err := s.Add(ctx, []string{"cats are mammals", "go is a language", "the sky looks blue"}, "facts.txt"); err != nil {
		t.Fatal(err)
	}

	texts, err := s.Query(ctx, "tell me about go", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 2 {
		t.Fatalf("expected 2 results, got %d", len(texts))
	}
	if texts[0] != "go is a language" {
		t.Errorf("chunk with identical embedding must rank first, got %q", texts[0])
	}
}

func TestQuery_KCappedAtStoredCount(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()
	if _, err := s.Add(ctx, []string{"a", "b"}, "doc.txt"); err != nil {
		t.Fatal(err)
	}
	texts, err := s.Query(ctx, "q", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 2 {
		t.Errorf("expected min(k, stored)=2 results, got %d", len(texts))
	}
}

func TestDeleteGroup(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	docID, err := s.Add(ctx, []string{"a", "b"}, "doc.txt")
	if err != nil {
		t.Fatal(err)
	}

	found, err := s.DeleteGroup(ctx, docID)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Error("first delete of existing group must report found")
	}

	docs, err := s.ListGroups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("group still listed after delete: %+v", docs)
	}

	found, err = s.DeleteGroup(ctx, docID)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("second delete of same group must report not found")
	}
}

func TestDeleteGroup_OnlyTargetGroupRemoved(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	id1, _ := s.Add(ctx, []string{"a"}, "one.txt")
	id2, _ := s.Add(ctx, []string{"b", "c"}, "two.txt")

	if _, err := s.DeleteGroup(ctx, id1); err != nil {
		t.Fatal(err)
	}
	docs, err := s.ListGroups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != id2 || docs[0].ChunkCount != 2 {
		t.Errorf("sibling group damaged by delete: %+v", docs)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectors.db")
	emb := &fakeEmbedder{}

	s, err := New(Config{Path: path, Embedder: emb, Logger: testLogger()})
	if err != nil {
		t.Fatal(err)
	}
	docID, err := s.Add(context.Background(), []string{"persisted chunk"}, "keep.txt")
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := New(Config{Path: path, Embedder: emb, Logger: testLogger()})
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	texts, err := s2.Query(context.Background(), "persisted chunk", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 1 || texts[0] != "persisted chunk" {
		t.Errorf("chunk did not survive reopen: %v", texts)
	}
	docs, _ := s2.ListGroups(context.Background())
	if len(docs) != 1 || docs[0].ID != docID {
		t.Errorf("group metadata did not survive reopen: %+v", docs)
	}
}

func TestEncodeDecodeVector(t *testing.T) {
	in := []float32{0.1, -2.5, 3.75, 0}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("dimension changed: %d vs %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("component %d: %v != %v", i, in[i], out[i])
		}
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("blob length not divisible by 4 must fail")
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got, _ := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("identical vectors: %v", got)
	}
	if got, _ := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: %v", got)
	}
	if got, _ := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero vector should score 0, got %v", got)
	}
	if _, err := cosineSimilarity([]float32{1}, []float32{1, 0}); err == nil {
		t.Error("dimension mismatch must error")
	}
}
