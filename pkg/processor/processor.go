package processor

import (
	"errors"
	"strings"

	"insurebot/internal/models"
)

// ErrEmptyCorpus is returned when neither the document nor the web
// source produced a single chunk. Fatal at engine initialization.
var ErrEmptyCorpus = errors.New("no chunks created from any source")

type ProcessorConfig struct {
	ChunkSize      int // window size in words
	ChunkOverlap   int // words shared between adjacent windows
	MinChunkLength int // web chunks shorter than this are dropped
	MaxPDFChunks   int // hard cap on document chunks
	TotalCap       int // hard cap on the whole corpus
}

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize == 0 {
		config.ChunkSize = 500
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 50
	}
	if config.MinChunkLength == 0 {
		config.MinChunkLength = 100
	}
	if config.MaxPDFChunks == 0 {
		config.MaxPDFChunks = 150
	}
	if config.TotalCap == 0 {
		config.TotalCap = 200
	}

	return Processor{
		config: config,
	}
}

// ChunkText splits text into overlapping word windows. The window
// advances by windowSize-overlap words per step; maxChunks is a hard
// cap, not a soft truncation. Deterministic for fixed inputs.
func ChunkText(text string, windowSize, overlap, maxChunks int) []string {
	if windowSize <= 0 {
		windowSize = 500
	}
	if overlap < 0 || overlap >= windowSize {
		overlap = 0
	}

	words := strings.Fields(text)
	step := windowSize - overlap

	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + windowSize
		if end > len(words) {
			end = len(words)
		}

		chunk := strings.TrimSpace(strings.Join(words[i:end], " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if maxChunks > 0 && len(chunks) >= maxChunks {
			break
		}
		if end == len(words) {
			break
		}
	}

	return chunks
}

// BuildCorpus merges document and web chunks into one ordered corpus.
// Document chunks come first and have priority: web chunks are
// truncated to whatever room remains under TotalCap.
func (p *Processor) BuildCorpus(documentText string, pages []models.Page) ([]models.Chunk, error) {
	var corpus []models.Chunk

	docChunks := ChunkText(documentText, p.config.ChunkSize, p.config.ChunkOverlap, p.config.MaxPDFChunks)
	for _, text := range docChunks {
		corpus = append(corpus, models.Chunk{Text: text, Source: models.SourcePDF})
	}

	webBudget := p.config.TotalCap - len(corpus)
	webChunks := p.chunkPages(pages)
	if len(webChunks) > webBudget {
		if webBudget < 0 {
			webBudget = 0
		}
		webChunks = webChunks[:webBudget]
	}
	corpus = append(corpus, webChunks...)

	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	return corpus, nil
}

// chunkPages turns scraped pages into web chunks. Each chunk carries a
// page-title prefix for context, and near-empty chunks are discarded.
func (p *Processor) chunkPages(pages []models.Page) []models.Chunk {
	var chunks []models.Chunk

	for _, page := range pages {
		prefix := ""
		if title := strings.TrimSpace(page.Title); title != "" {
			prefix = "From " + title + ": "
		}

		fullText := strings.TrimSpace(page.Description + " " + page.Content)
		for _, text := range ChunkText(fullText, p.config.ChunkSize, p.config.ChunkOverlap, 0) {
			if len(text) < p.config.MinChunkLength {
				continue
			}
			chunks = append(chunks, models.Chunk{Text: prefix + text, Source: models.SourceWeb})
		}
	}

	return chunks
}
