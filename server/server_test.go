package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurebot/internal/models"
	"insurebot/pkg/bot"
	"insurebot/pkg/store"
	"insurebot/pkg/synth"
	"insurebot/server"
)

type stubRetriever struct {
	results []models.ScoredChunk
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, k int) ([]models.ScoredChunk, error) {
	return s.results, nil
}

func (s *stubRetriever) Size() int {
	return len(s.results)
}

func newTestHandler(retriever *stubRetriever) http.Handler {
	b := bot.NewWithConfig(bot.BotConfig{}, retriever, store.NewMemoryStore(),
		synth.NewWithConfig(synth.SynthesizerConfig{}))
	return server.New(server.Config{}, b, retriever).Handler()
}

func TestHandleChat(t *testing.T) {
	handler := newTestHandler(&stubRetriever{})

	body, _ := json.Marshal(map[string]string{
		"message":    "What is ICICI Insurance?",
		"session_id": "s1",
	})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "s1", result.SessionID)
	assert.NotEmpty(t, result.Response)
}

func TestHandleChat_GeneratesSessionID(t *testing.T) {
	handler := newTestHandler(&stubRetriever{})

	body, _ := json.Marshal(map[string]string{"message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.SessionID)
}

func TestHandleChat_RejectsEmptyMessage(t *testing.T) {
	handler := newTestHandler(&stubRetriever{})

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHistory(t *testing.T) {
	handler := newTestHandler(&stubRetriever{})

	body, _ := json.Marshal(map[string]string{
		"message":    "What is ICICI Insurance?",
		"session_id": "s-history",
	})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/history/s-history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		SessionID string                `json:"session_id"`
		History   []models.Conversation `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "s-history", payload.SessionID)
	require.Len(t, payload.History, 1)
	assert.Equal(t, "What is ICICI Insurance?", payload.History[0].UserMessage)
}

func TestHandleHealth(t *testing.T) {
	loaded := &stubRetriever{results: []models.ScoredChunk{
		{Chunk: models.Chunk{Text: "chunk", Source: models.SourcePDF}, Score: 1},
	}}
	handler := newTestHandler(loaded)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Status       string `json:"status"`
		ChatbotReady bool   `json:"chatbot_ready"`
		ChunksLoaded int    `json:"chunks_loaded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload.Status)
	assert.True(t, payload.ChatbotReady)
	assert.Equal(t, 1, payload.ChunksLoaded)
}

func TestHandleHealth_Degraded(t *testing.T) {
	handler := newTestHandler(&stubRetriever{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Status       string `json:"status"`
		ChatbotReady bool   `json:"chatbot_ready"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "degraded", payload.Status)
	assert.False(t, payload.ChatbotReady)
}
