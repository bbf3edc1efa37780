// Package bot orchestrates one chat turn: FAQ short-circuit, retrieval,
// synthesis, persistence. A turn always terminates in a structured
// result; errors never propagate past this boundary.
package bot

import (
	"context"
	"fmt"

	"insurebot/internal/models"
	"insurebot/internal/types"
	"insurebot/pkg/faq"
	"insurebot/pkg/synth"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type BotConfig struct {
	TopK          int // chunks retrieved per turn
	ContextLimit  int // prior turns fetched for conversation context
	PersistChunks int // provenance chunks stored with each turn
}

type Bot struct {
	config      BotConfig
	retriever   types.Retriever
	store       types.ConversationStore
	synthesizer synth.Synthesizer
}

func NewWithConfig(config BotConfig, retriever types.Retriever, store types.ConversationStore, synthesizer synth.Synthesizer) *Bot {
	if config.TopK == 0 {
		config.TopK = 8
	}
	if config.ContextLimit == 0 {
		config.ContextLimit = 3
	}
	if config.PersistChunks == 0 {
		config.PersistChunks = 3
	}

	return &Bot{
		config:      config,
		retriever:   retriever,
		store:       store,
		synthesizer: synthesizer,
	}
}

// HandleTurn runs one full turn for a session. Every failure, panics
// included, is converted into a status "error" result carrying the
// error text as the visible response.
func (b *Bot) HandleTurn(ctx context.Context, query, sessionID string) (result models.TurnResult) {
	defer func() {
		if r := recover(); r != nil {
			result = errorResult(sessionID, fmt.Errorf("%v", r))
		}
	}()

	result, err := b.handleTurn(ctx, query, sessionID)
	if err != nil {
		return errorResult(sessionID, err)
	}
	return result
}

func (b *Bot) handleTurn(ctx context.Context, query, sessionID string) (models.TurnResult, error) {
	if err := b.store.CreateSession(ctx, sessionID); err != nil {
		return models.TurnResult{}, fmt.Errorf("creating session: %w", err)
	}

	// Curated FAQ answers bypass retrieval entirely
	if answer, ok := faq.Match(query); ok {
		response := answer + "\n\nSource: FAQ"
		if err := b.store.AddConversation(ctx, sessionID, query, response, nil); err != nil {
			return models.TurnResult{}, fmt.Errorf("persisting turn: %w", err)
		}
		return models.TurnResult{
			Response:       response,
			RelevantChunks: 1,
			SessionID:      sessionID,
			Status:         statusSuccess,
		}, nil
	}

	conversationContext, err := b.store.GetRecentContext(ctx, sessionID, b.config.ContextLimit)
	if err != nil {
		return models.TurnResult{}, fmt.Errorf("loading context: %w", err)
	}

	results, err := b.retriever.Retrieve(ctx, query, b.config.TopK)
	if err != nil {
		return models.TurnResult{}, fmt.Errorf("retrieving chunks: %w", err)
	}

	response := b.synthesizer.Synthesize(query, results, conversationContext)

	provenance := make([]string, 0, b.config.PersistChunks)
	for i, r := range results {
		if i >= b.config.PersistChunks {
			break
		}
		provenance = append(provenance, r.Chunk.Tagged())
	}

	if err := b.store.AddConversation(ctx, sessionID, query, response, provenance); err != nil {
		return models.TurnResult{}, fmt.Errorf("persisting turn: %w", err)
	}

	return models.TurnResult{
		Response:       response,
		RelevantChunks: len(results),
		SessionID:      sessionID,
		Status:         statusSuccess,
	}, nil
}

// History returns the session's turns in chronological order.
func (b *Bot) History(ctx context.Context, sessionID string, limit int) ([]models.Conversation, error) {
	return b.store.GetConversationHistory(ctx, sessionID, limit)
}

func errorResult(sessionID string, err error) models.TurnResult {
	return models.TurnResult{
		Response:       "I apologize, but I encountered an error: " + err.Error(),
		RelevantChunks: 0,
		SessionID:      sessionID,
		Status:         statusError,
	}
}
