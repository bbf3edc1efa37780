// Package index holds the persisted embedding index and the
// brute-force retrieval engine on top of it. The corpus is capped at a
// couple hundred chunks, so a full cosine scan per query is fine.
package index

import (
	"context"
	"encoding/gob"
	"fmt"
	"log"
	"math"
	"os"
	"sort"

	"insurebot/internal/models"
	"insurebot/internal/types"
)

type IndexConfig struct {
	ChunksPath     string
	EmbeddingsPath string
	Embedder       types.Embedder
	BatchSize      int // chunks embedded per model call
	OnProgress     func(done, total int)
}

// Index pairs the corpus with its embedding matrix, joined by position.
// Immutable once built or loaded; safe to share across sessions.
type Index struct {
	config     IndexConfig
	chunks     []models.Chunk
	embeddings [][]float32
}

func NewWithConfig(config IndexConfig) *Index {
	if config.ChunksPath == "" {
		config.ChunksPath = "chunks.gob"
	}
	if config.EmbeddingsPath == "" {
		config.EmbeddingsPath = "embeddings.gob"
	}
	if config.BatchSize == 0 {
		config.BatchSize = 16
	}

	return &Index{
		config: config,
	}
}

// BuildOrLoad loads the persisted chunk/embedding pair if both
// artifacts are present and structurally valid; any load failure is
// logged as a rebuild reason and followed by a full rebuild from the
// given corpus.
func (ix *Index) BuildOrLoad(ctx context.Context, corpus []models.Chunk) error {
	if err := ix.Load(); err != nil {
		log.Printf("index cache unavailable, rebuilding: %v", err)
		return ix.Build(ctx, corpus)
	}
	return nil
}

// Load reads the paired artifacts. The returned error is the rebuild
// reason; the index is left empty on failure. Note there is no
// content-hash or model-version check: a stale cache keeps serving
// until the files are deleted.
func (ix *Index) Load() error {
	var tagged []string
	if err := decodeFile(ix.config.ChunksPath, &tagged); err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}

	var embeddings [][]float32
	if err := decodeFile(ix.config.EmbeddingsPath, &embeddings); err != nil {
		return fmt.Errorf("loading embeddings: %w", err)
	}

	if len(tagged) == 0 {
		return fmt.Errorf("chunk artifact is empty")
	}
	if len(tagged) != len(embeddings) {
		return fmt.Errorf("artifact length mismatch: %d chunks, %d embeddings", len(tagged), len(embeddings))
	}

	chunks := make([]models.Chunk, len(tagged))
	for i, t := range tagged {
		chunks[i] = models.ParseTagged(t)
	}

	ix.chunks = chunks
	ix.embeddings = embeddings
	return nil
}

// Build embeds every chunk's tagged text and persists both artifacts.
func (ix *Index) Build(ctx context.Context, corpus []models.Chunk) error {
	if len(corpus) == 0 {
		return fmt.Errorf("cannot build index from an empty corpus")
	}

	embeddings := make([][]float32, 0, len(corpus))
	for start := 0; start < len(corpus); start += ix.config.BatchSize {
		end := start + ix.config.BatchSize
		if end > len(corpus) {
			end = len(corpus)
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range corpus[start:end] {
			texts = append(texts, chunk.Tagged())
		}

		batch, err := ix.config.Embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding corpus batch %d-%d: %w", start, end, err)
		}
		embeddings = append(embeddings, batch...)

		if ix.config.OnProgress != nil {
			ix.config.OnProgress(end, len(corpus))
		}
	}

	ix.chunks = corpus
	ix.embeddings = embeddings

	if err := ix.save(); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}
	return nil
}

func (ix *Index) save() error {
	tagged := make([]string, len(ix.chunks))
	for i, chunk := range ix.chunks {
		tagged[i] = chunk.Tagged()
	}

	if err := encodeFile(ix.config.ChunksPath, tagged); err != nil {
		return err
	}
	return encodeFile(ix.config.EmbeddingsPath, ix.embeddings)
}

// Size returns the number of indexed chunks.
func (ix *Index) Size() int {
	return len(ix.chunks)
}

// Retrieve embeds the query with the same model used for the corpus,
// scores every chunk, and returns the top k in non-increasing score
// order. Ties keep corpus order. No state is mutated.
func (ix *Index) Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	vectors, err := ix.config.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	queryVec := vectors[0]

	scores := make([]float32, len(ix.embeddings))
	for i, emb := range ix.embeddings {
		scores[i] = CosineSimilarity(queryVec, emb)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]models.ScoredChunk, 0, k)
	for _, idx := range order[:k] {
		results = append(results, models.ScoredChunk{
			Chunk: ix.chunks[idx],
			Score: scores[idx],
		})
	}
	return results, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors,
// 0 when either has no magnitude.
func CosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func decodeFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}

func encodeFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(v)
}
