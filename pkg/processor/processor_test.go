package processor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurebot/internal/models"
	"insurebot/pkg/processor"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word" + string(rune('a'+i%26))
	}
	return strings.Join(parts, " ")
}

func TestChunkText_OverlappingWindows(t *testing.T) {
	text := "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11 w12"

	chunks := processor.ChunkText(text, 5, 2, 0)

	require.Len(t, chunks, 4)
	assert.Equal(t, "w1 w2 w3 w4 w5", chunks[0])
	assert.Equal(t, "w4 w5 w6 w7 w8", chunks[1])
	assert.Equal(t, "w10 w11 w12", chunks[3])
}

func TestChunkText_Deterministic(t *testing.T) {
	text := words(1200)

	first := processor.ChunkText(text, 100, 10, 0)
	second := processor.ChunkText(text, 100, 10, 0)

	assert.Equal(t, first, second)
}

func TestChunkText_MaxChunksIsHardCap(t *testing.T) {
	text := words(5000)

	chunks := processor.ChunkText(text, 100, 10, 3)

	assert.Len(t, chunks, 3)
}

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, processor.ChunkText("", 100, 10, 0))
	assert.Empty(t, processor.ChunkText("   \n\t ", 100, 10, 0))
}

func TestBuildCorpus_DocumentChunksComeFirst(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      10,
		ChunkOverlap:   2,
		MinChunkLength: 10,
		MaxPDFChunks:   150,
		TotalCap:       200,
	})

	pages := []models.Page{
		{Title: "Term Plans", Content: words(30)},
	}

	corpus, err := p.BuildCorpus(words(25), pages)

	require.NoError(t, err)
	require.NotEmpty(t, corpus)
	assert.Equal(t, models.SourcePDF, corpus[0].Source)

	seenWeb := false
	for _, chunk := range corpus {
		if chunk.Source == models.SourceWeb {
			seenWeb = true
		}
		if seenWeb {
			assert.Equal(t, models.SourceWeb, chunk.Source, "web chunks must not precede document chunks")
		}
	}
	assert.True(t, seenWeb)
}

func TestBuildCorpus_WebChunksCarryTitlePrefix(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      10,
		ChunkOverlap:   2,
		MinChunkLength: 10,
	})

	pages := []models.Page{
		{Title: "Claims", Description: "How claims work.", Content: words(20)},
	}

	corpus, err := p.BuildCorpus("", pages)

	require.NoError(t, err)
	require.NotEmpty(t, corpus)
	assert.True(t, strings.HasPrefix(corpus[0].Text, "From Claims: "))
	assert.Equal(t, models.SourceWeb, corpus[0].Source)
}

func TestBuildCorpus_ShortWebChunksDropped(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      10,
		ChunkOverlap:   2,
		MinChunkLength: 100,
	})

	pages := []models.Page{
		{Title: "Stub", Content: "too short"},
	}

	_, err := p.BuildCorpus("", pages)

	assert.ErrorIs(t, err, processor.ErrEmptyCorpus)
}

func TestBuildCorpus_TotalCapSqueezesWebChunks(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      10,
		ChunkOverlap:   2,
		MinChunkLength: 10,
		MaxPDFChunks:   5,
		TotalCap:       7,
	})

	pages := []models.Page{
		{Title: "Products", Content: words(200)},
	}

	corpus, err := p.BuildCorpus(words(200), pages)

	require.NoError(t, err)
	assert.Len(t, corpus, 7)

	pdfChunks := 0
	for _, chunk := range corpus {
		if chunk.Source == models.SourcePDF {
			pdfChunks++
		}
	}
	assert.Equal(t, 5, pdfChunks)
}

func TestBuildCorpus_EmptySources(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	_, err := p.BuildCorpus("", nil)

	assert.ErrorIs(t, err, processor.ErrEmptyCorpus)
}
