package store

import (
	"context"
	"sync"
	"time"

	"insurebot/internal/models"
)

// MemoryStore is an in-memory conversation store for development and
// tests. Same semantics as the Postgres store, no durability.
type MemoryStore struct {
	mu            sync.RWMutex
	sessions      map[string]time.Time // sessionID -> last activity
	conversations map[string][]models.Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:      make(map[string]time.Time),
		conversations: make(map[string][]models.Conversation),
	}
}

func (ms *MemoryStore) CreateSession(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[sessionID] = time.Now()
	return nil
}

func (ms *MemoryStore) AddConversation(ctx context.Context, sessionID, userMessage, botResponse string, contextChunks []string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.conversations[sessionID] = append(ms.conversations[sessionID], models.Conversation{
		UserMessage:   userMessage,
		BotResponse:   botResponse,
		Timestamp:     time.Now(),
		ContextChunks: contextChunks,
	})
	ms.sessions[sessionID] = time.Now()
	return nil
}

func (ms *MemoryStore) GetConversationHistory(ctx context.Context, sessionID string, limit int) ([]models.Conversation, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	history := ms.conversations[sessionID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]models.Conversation, len(history))
	copy(out, history)
	return out, nil
}

func (ms *MemoryStore) GetRecentContext(ctx context.Context, sessionID string, limit int) (string, error) {
	history, err := ms.GetConversationHistory(ctx, sessionID, limit)
	if err != nil {
		return "", err
	}
	return FormatContext(history), nil
}

func (ms *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	delete(ms.conversations, sessionID)
	return nil
}

// CleanupOldSessions drops sessions idle longer than the given number
// of days. Returns sessions removed.
func (ms *MemoryStore) CleanupOldSessions(ctx context.Context, days int) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	removed := 0
	for id, last := range ms.sessions {
		if last.Before(cutoff) {
			delete(ms.sessions, id)
			delete(ms.conversations, id)
			removed++
		}
	}
	return removed, nil
}
