package models

import (
	"strings"
	"time"
)

// Source identifies where a corpus chunk came from.
type Source int

const (
	SourceNone Source = iota
	SourcePDF
	SourceWeb
)

// Tag returns the marker prepended to chunk text in the on-disk cache
// and in the text handed to the embedding model.
func (s Source) Tag() string {
	switch s {
	case SourcePDF:
		return "[PDF] "
	case SourceWeb:
		return "[WEB] "
	default:
		return ""
	}
}

// Label is the human-readable source name used in response annotations.
func (s Source) Label() string {
	switch s {
	case SourcePDF:
		return "PDF"
	case SourceWeb:
		return "Website"
	default:
		return "Unknown"
	}
}

// Chunk is a bounded span of corpus text. The source is a first-class
// field; the prefix tag only appears in the persisted form.
type Chunk struct {
	Text   string
	Source Source
}

// Tagged returns the chunk text with its source marker, the form that
// is embedded and written to the cache.
func (c Chunk) Tagged() string {
	return c.Source.Tag() + c.Text
}

// ParseTagged recovers a Chunk from its persisted tagged form. Text
// without a recognized marker is treated as untagged.
func ParseTagged(s string) Chunk {
	switch {
	case strings.HasPrefix(s, SourcePDF.Tag()):
		return Chunk{Text: strings.TrimPrefix(s, SourcePDF.Tag()), Source: SourcePDF}
	case strings.HasPrefix(s, SourceWeb.Tag()):
		return Chunk{Text: strings.TrimPrefix(s, SourceWeb.Tag()), Source: SourceWeb}
	default:
		return Chunk{Text: s, Source: SourceNone}
	}
}

// Page is one scraped web page.
type Page struct {
	URL         string
	Title       string
	Description string
	Content     string
}

// ScoredChunk pairs a chunk with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// TurnResult is the structured outcome of one chat turn. Errors are
// reported through Status, never as a raw fault.
type TurnResult struct {
	Response       string `json:"response"`
	RelevantChunks int    `json:"relevant_chunks"`
	SessionID      string `json:"session_id"`
	Status         string `json:"status"`
}

// Conversation is one persisted query/response exchange.
type Conversation struct {
	UserMessage   string    `json:"user_message"`
	BotResponse   string    `json:"bot_response"`
	Timestamp     time.Time `json:"timestamp"`
	ContextChunks []string  `json:"context_chunks"`
}
