package types

import (
	"context"

	"insurebot/internal/models"
)

// Embedder turns text into fixed-dimension vectors. The model behind it
// is an external dependency and must be the same for corpus and query.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever returns the top-k corpus chunks by similarity to a query,
// scores in non-increasing order. Implementations must be safe for
// concurrent use once built.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error)
	Size() int
}

// ConversationStore persists sessions and their turn history.
type ConversationStore interface {
	CreateSession(ctx context.Context, sessionID string) error
	AddConversation(ctx context.Context, sessionID, userMessage, botResponse string, contextChunks []string) error
	GetRecentContext(ctx context.Context, sessionID string, limit int) (string, error)
	GetConversationHistory(ctx context.Context, sessionID string, limit int) ([]models.Conversation, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
