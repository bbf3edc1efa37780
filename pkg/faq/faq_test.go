package faq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurebot/pkg/faq"
)

func TestMatch_PhraseContainment(t *testing.T) {
	answer, ok := faq.Match("What is ICICI Insurance exactly?")

	require.True(t, ok)
	assert.Contains(t, answer, "ICICI Prudential Life Insurance Company Limited")
}

func TestMatch_PhraseBeatsKeywordScoring(t *testing.T) {
	answer, ok := faq.Match("tell me the claim settlement ratio")

	require.True(t, ok)
	assert.Contains(t, answer, "99.3%")
}

func TestMatch_KeywordFallback(t *testing.T) {
	// No entry key appears verbatim, but the premium cost entry
	// collects enough keyword hits to clear the score floor.
	answer, ok := faq.Match("how much will my monthly premium price be?")

	require.True(t, ok)
	assert.Contains(t, answer, "depend on several factors")
}

func TestMatch_ScoreFloorRejectsWeakOverlap(t *testing.T) {
	// Two keyword hits but no key-phrase words: score stays below the
	// floor and retrieval should take over.
	_, ok := faq.Match("customer support hours")

	assert.False(t, ok)
}

func TestMatch_NoMatch(t *testing.T) {
	_, ok := faq.Match("what's the weather like today")

	assert.False(t, ok)
}

func TestEntries_StableOrder(t *testing.T) {
	entries := faq.Entries()

	require.NotEmpty(t, entries)
	assert.Equal(t, "claim settlement ratio", entries[0].Key)

	for _, entry := range entries {
		assert.NotEmpty(t, entry.Answer, "entry %q has no answer", entry.Key)
		assert.NotEmpty(t, entry.Keywords, "entry %q has no keywords", entry.Key)
	}
}
