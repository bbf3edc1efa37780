package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"insurebot/internal/models"
)

type ConversationStoreConfig struct {
	ConnString   string
	HistoryLimit int // default limit for history reads
}

// ConversationStore keeps sessions and their turn history in Postgres.
// Each call is an independent statement scoped by session_id; the
// database provides whatever contention control a session needs.
type ConversationStore struct {
	config ConversationStoreConfig
	pool   *pgxpool.Pool
}

func NewConversationStore(config ConversationStoreConfig) (*ConversationStore, error) {
	if config.HistoryLimit == 0 {
		config.HistoryLimit = 10
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	cs := &ConversationStore{
		config: config,
		pool:   pool,
	}

	if err := cs.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return cs, nil
}

func (cs *ConversationStore) initialize() error {
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_activity TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_message TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			context_chunks JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS conversations_session_idx
			ON conversations (session_id, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := cs.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %v", err)
		}
	}
	return nil
}

// CreateSession creates the session or refreshes its activity stamp.
func (cs *ConversationStore) CreateSession(ctx context.Context, sessionID string) error {
	_, err := cs.pool.Exec(ctx, `
		INSERT INTO sessions (session_id)
		VALUES ($1)
		ON CONFLICT (session_id) DO UPDATE SET last_activity = now()`,
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to create session: %v", err)
	}
	return nil
}

// AddConversation persists one turn with its provenance chunks and
// bumps the session's activity.
func (cs *ConversationStore) AddConversation(ctx context.Context, sessionID, userMessage, botResponse string, contextChunks []string) error {
	var contextJSON []byte
	if len(contextChunks) > 0 {
		var err error
		contextJSON, err = json.Marshal(contextChunks)
		if err != nil {
			return fmt.Errorf("failed to encode context chunks: %v", err)
		}
	}

	tx, err := cs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO conversations (session_id, user_message, bot_response, context_chunks)
		VALUES ($1, $2, $3, $4)`,
		sessionID, userMessage, botResponse, contextJSON)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %v", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE sessions SET last_activity = now() WHERE session_id = $1`,
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session activity: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// GetConversationHistory returns up to limit turns in chronological order.
func (cs *ConversationStore) GetConversationHistory(ctx context.Context, sessionID string, limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = cs.config.HistoryLimit
	}

	rows, err := cs.pool.Query(ctx, `
		SELECT user_message, bot_response, created_at, context_chunks
		FROM conversations
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %v", err)
	}
	defer rows.Close()

	var history []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		var contextJSON []byte
		if err := rows.Scan(&conv.UserMessage, &conv.BotResponse, &conv.Timestamp, &contextJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		if len(contextJSON) > 0 {
			if err := json.Unmarshal(contextJSON, &conv.ContextChunks); err != nil {
				return nil, fmt.Errorf("failed to decode context chunks: %v", err)
			}
		}
		history = append(history, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows come newest-first; return in chronological order
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// GetRecentContext formats the last turns as a conversation transcript.
func (cs *ConversationStore) GetRecentContext(ctx context.Context, sessionID string, limit int) (string, error) {
	history, err := cs.GetConversationHistory(ctx, sessionID, limit)
	if err != nil {
		return "", err
	}
	return FormatContext(history), nil
}

// DeleteSession removes a session and all its turns.
func (cs *ConversationStore) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := cs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM conversations WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete conversations: %v", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}

	return tx.Commit(ctx)
}

// CleanupOldSessions deletes sessions inactive for more than the given
// number of days, with their conversations. Returns sessions removed.
func (cs *ConversationStore) CleanupOldSessions(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		days = 30
	}

	_, err := cs.pool.Exec(ctx, `
		DELETE FROM conversations WHERE session_id IN (
			SELECT session_id FROM sessions
			WHERE last_activity < now() - ($1 || ' days')::interval
		)`, fmt.Sprint(days))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up conversations: %v", err)
	}

	tag, err := cs.pool.Exec(ctx, `
		DELETE FROM sessions
		WHERE last_activity < now() - ($1 || ' days')::interval`,
		fmt.Sprint(days))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %v", err)
	}

	return int(tag.RowsAffected()), nil
}

func (cs *ConversationStore) Close() {
	if cs.pool != nil {
		cs.pool.Close()
	}
}

// FormatContext renders turns as a "User: …\nAssistant: …" transcript.
func FormatContext(history []models.Conversation) string {
	var sb strings.Builder
	for _, conv := range history {
		sb.WriteString("User: " + conv.UserMessage + "\n")
		sb.WriteString("Assistant: " + conv.BotResponse + "\n\n")
	}
	return strings.TrimSpace(sb.String())
}
