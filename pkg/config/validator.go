package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Embedding.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "embedding.base_url",
			Message: "embedding server URL is required",
		})
	} else if _, err := url.Parse(c.Embedding.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "embedding.base_url",
			Message: "invalid embedding server URL",
		})
	}

	if c.Embedding.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "embedding.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	if c.Corpus.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "corpus.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Corpus.ChunkOverlap < 0 || c.Corpus.ChunkOverlap >= c.Corpus.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "corpus.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	if c.Corpus.MaxPDFChunks > c.Corpus.TotalCap {
		errors = append(errors, ValidationError{
			Field:   "corpus.max_pdf_chunks",
			Message: "max_pdf_chunks cannot exceed total_cap",
		})
	}

	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Engine.Backend != "file" && c.Engine.Backend != "pgvector" {
		errors = append(errors, ValidationError{
			Field:   "engine.backend",
			Message: fmt.Sprintf("unknown backend %q, expected file or pgvector", c.Engine.Backend),
		})
	}

	if c.Engine.Backend == "pgvector" && c.Database.URL == "" {
		errors = append(errors, ValidationError{
			Field:   "database.url",
			Message: "pgvector backend requires a database URL",
		})
	}

	if c.Engine.SimilarityThreshold < -1 || c.Engine.SimilarityThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.similarity_threshold",
			Message: "similarity_threshold must be within [-1, 1]",
		})
	}

	if c.Engine.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.top_k",
			Message: "top_k must be positive",
		})
	}

	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	return errors
}
