package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"insurebot/internal/models"
	"insurebot/internal/types"
)

type VectorStoreConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	Embedder   types.Embedder
}

// VectorStore is a pgvector-backed Retriever, an alternative to the
// file index for corpora that outgrow an in-process scan.
type VectorStore struct {
	config VectorStoreConfig
	pool   *pgxpool.Pool
	size   int
}

func NewVectorStore(config VectorStoreConfig) (*VectorStore, error) {
	if config.TableName == "" {
		config.TableName = "corpus_chunks"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768 // nomic-embed-text
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	vs := &VectorStore{
		config: config,
		pool:   pool,
	}

	if err := vs.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) initialize() error {
	ctx := context.Background()

	if _, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			content TEXT NOT NULL,
			position INTEGER NOT NULL,
			embedding vector(%d)
		)`, vs.config.TableName, vs.config.VectorDim)
	if _, err := vs.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)
	if _, err := vs.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	if err := vs.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT count(*) FROM %s", vs.config.TableName)).Scan(&vs.size); err != nil {
		return fmt.Errorf("failed to count chunks: %v", err)
	}

	return nil
}

// StoreCorpus replaces the stored corpus with the given chunks,
// embedding each chunk's tagged text. Runs in one transaction so a
// failed rebuild leaves the previous corpus intact.
func (vs *VectorStore) StoreCorpus(ctx context.Context, corpus []models.Chunk) error {
	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", vs.config.TableName)); err != nil {
		return fmt.Errorf("failed to clear table: %v", err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (source, content, position, embedding)
		VALUES ($1, $2, $3, $4)`,
		vs.config.TableName)

	for i, chunk := range corpus {
		vectors, err := vs.config.Embedder.Embed(ctx, []string{chunk.Tagged()})
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %v", i, err)
		}

		_, err = tx.Exec(ctx, stmt,
			chunk.Source.Label(),
			chunk.Text,
			i,
			pgvector.NewVector(vectors[0]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %v", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	vs.size = len(corpus)
	return nil
}

// Retrieve embeds the query and returns the top-k chunks by cosine
// similarity, scored as 1 - cosine distance.
func (vs *VectorStore) Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	vectors, err := vs.config.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %v", err)
	}

	stmt := fmt.Sprintf(`
		SELECT source, content, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1, position
		LIMIT $2`,
		vs.config.TableName)

	rows, err := vs.pool.Query(ctx, stmt, pgvector.NewVector(vectors[0]), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %v", err)
	}
	defer rows.Close()

	var results []models.ScoredChunk
	for rows.Next() {
		var label, content string
		var score float32
		if err := rows.Scan(&label, &content, &score); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}

		source := models.SourceNone
		switch label {
		case models.SourcePDF.Label():
			source = models.SourcePDF
		case models.SourceWeb.Label():
			source = models.SourceWeb
		}

		results = append(results, models.ScoredChunk{
			Chunk: models.Chunk{Text: content, Source: source},
			Score: score,
		})
	}
	return results, rows.Err()
}

// Size returns the number of stored chunks.
func (vs *VectorStore) Size() int {
	return vs.size
}

func (vs *VectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}
