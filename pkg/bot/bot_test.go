package bot_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurebot/internal/models"
	"insurebot/pkg/bot"
	"insurebot/pkg/store"
	"insurebot/pkg/synth"
)

type fakeRetriever struct {
	results []models.ScoredChunk
	err     error
	panics  bool
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	if f.panics {
		panic("retriever blew up")
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > k {
		return f.results[:k], nil
	}
	return f.results, nil
}

func (f *fakeRetriever) Size() int {
	return len(f.results)
}

type brokenStore struct {
	*store.MemoryStore
}

func (b *brokenStore) CreateSession(ctx context.Context, sessionID string) error {
	return errors.New("database unavailable")
}

func newBot(retriever *fakeRetriever, convStore *store.MemoryStore) *bot.Bot {
	return bot.NewWithConfig(bot.BotConfig{}, retriever, convStore,
		synth.NewWithConfig(synth.SynthesizerConfig{}))
}

func TestHandleTurn_FAQShortCircuit(t *testing.T) {
	retriever := &fakeRetriever{panics: true} // must not be reached
	convStore := store.NewMemoryStore()
	b := newBot(retriever, convStore)

	result := b.HandleTurn(context.Background(), "What is ICICI Insurance?", "s1")

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 1, result.RelevantChunks)
	assert.Equal(t, "s1", result.SessionID)
	assert.Contains(t, result.Response, "Source: FAQ")

	history, err := b.History(context.Background(), "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "What is ICICI Insurance?", history[0].UserMessage)
}

func TestHandleTurn_RetrievalPath(t *testing.T) {
	retriever := &fakeRetriever{
		results: []models.ScoredChunk{
			{Chunk: models.Chunk{Text: "Term insurance provides financial protection for your family at affordable premiums.", Source: models.SourcePDF}, Score: 0.8},
			{Chunk: models.Chunk{Text: "Term plans include riders for critical illness cover with flexible terms.", Source: models.SourceWeb}, Score: 0.6},
		},
	}
	convStore := store.NewMemoryStore()
	b := newBot(retriever, convStore)

	result := b.HandleTurn(context.Background(), "does the protection plan cover my family", "s2")

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 2, result.RelevantChunks)
	assert.NotEmpty(t, result.Response)

	// Top chunks are persisted in their tagged form as provenance
	history, err := b.History(context.Background(), "s2", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].ContextChunks, 2)
	assert.True(t, strings.HasPrefix(history[0].ContextChunks[0], "[PDF] "))
	assert.True(t, strings.HasPrefix(history[0].ContextChunks[1], "[WEB] "))
}

func TestHandleTurn_StoreErrorBecomesErrorResult(t *testing.T) {
	retriever := &fakeRetriever{}
	b := bot.NewWithConfig(bot.BotConfig{},
		retriever,
		&brokenStore{store.NewMemoryStore()},
		synth.NewWithConfig(synth.SynthesizerConfig{}))

	result := b.HandleTurn(context.Background(), "anything", "s3")

	assert.Equal(t, "error", result.Status)
	assert.Equal(t, 0, result.RelevantChunks)
	assert.Contains(t, result.Response, "I apologize, but I encountered an error")
}

func TestHandleTurn_RetrieverErrorBecomesErrorResult(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("embedding server down")}
	b := newBot(retriever, store.NewMemoryStore())

	result := b.HandleTurn(context.Background(), "explain surrender value rules", "s4")

	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Response, "embedding server down")
}

func TestHandleTurn_PanicIsRecovered(t *testing.T) {
	retriever := &fakeRetriever{panics: true}
	b := newBot(retriever, store.NewMemoryStore())

	result := b.HandleTurn(context.Background(), "explain surrender value rules", "s5")

	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Response, "I apologize, but I encountered an error")
	assert.Equal(t, "s5", result.SessionID)
}

func TestHandleTurn_GreetingSkipsRetrievalFailure(t *testing.T) {
	// Greetings are answered by the synthesizer even when retrieval
	// returns nothing useful.
	retriever := &fakeRetriever{}
	b := newBot(retriever, store.NewMemoryStore())

	result := b.HandleTurn(context.Background(), "Hello!", "s6")

	assert.Equal(t, "success", result.Status)
	assert.Contains(t, result.Response, "I'm here to help")
}
