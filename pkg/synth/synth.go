// Package synth composes an extractive answer from retrieved chunks.
// No generative model is involved: the response is assembled from
// scored corpus sentences and fixed templates.
package synth

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"insurebot/internal/models"
)

const (
	greetingReply = "Hello! I'm here to help you with ICICI Insurance queries. You can ask me about insurance plans, premiums, claims, or anything else."
	thanksReply   = "You're welcome! Feel free to ask if you have any other questions about ICICI Insurance."

	apologyReply = "I apologize, but I couldn't find relevant information in the ICICI Insurance documentation (PDF or website) to answer your question. Could you please rephrase your question or ask about specific ICICI Insurance products or services?"

	noSentencesReply = "I couldn't find specific information about that in the ICICI Insurance documentation. Could you try rephrasing your question?"

	settlementRatioFact = "ICICI Prudential Life Insurance has a 99.3% claim settlement ratio for FY 2024-25, one of the highest in the industry."
)

type SynthesizerConfig struct {
	SimilarityThreshold float32
	MaxContextChunks    int // chunks concatenated into the working context
	MaxSentences        int // sentences considered for scoring
	MaxSelected         int // sentences kept after scoring
	MaxResponseLength   int // hard cap on the finished response body
}

type Synthesizer struct {
	config SynthesizerConfig
}

func NewWithConfig(config SynthesizerConfig) Synthesizer {
	if config.SimilarityThreshold == 0 {
		config.SimilarityThreshold = 0.3
	}
	if config.MaxContextChunks == 0 {
		config.MaxContextChunks = 5
	}
	if config.MaxSentences == 0 {
		config.MaxSentences = 15
	}
	if config.MaxSelected == 0 {
		config.MaxSelected = 4
	}
	if config.MaxResponseLength == 0 {
		config.MaxResponseLength = 350
	}

	return Synthesizer{
		config: config,
	}
}

var (
	sourceTagRe  = regexp.MustCompile(`\[(?:PDF|WEB)\]\s*`)
	fromTitleRe  = regexp.MustCompile(`From [^:.]{1,100}: `)
	sourceLineRe = regexp.MustCompile(`Source: [^\n.]*`)
	policyCodeRe = regexp.MustCompile(`\b[A-Z]{2,}[-/]?\d{2,}[A-Z0-9]*\b`)
)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"were": true, "what": true, "how": true, "does": true, "can": true,
	"you": true, "your": true, "about": true, "with": true, "this": true,
	"that": true, "have": true, "has": true, "will": true, "tell": true,
	"please": true, "would": true, "could": true, "there": true,
}

var domainTerms = []string{"benefit", "cover", "premium", "claim", "policy", "insurance"}

var answerPhrases = []string{"you can", "offers", "provides", "includes", "available"}

// Synthesize builds a response for the query from the retrieval
// results. conversationContext is accepted but not yet used in scoring
// or templating; it is a reserved extension point.
func (s Synthesizer) Synthesize(query string, results []models.ScoredChunk, conversationContext string) string {
	_ = conversationContext

	intent := ClassifyIntent(query)
	if intent == IntentGreeting {
		return greetingReply
	}
	if intent == IntentThanks {
		return thanksReply
	}

	// Threshold filter: only chunks strictly above the line survive
	var survivors []models.ScoredChunk
	for _, r := range results {
		if r.Score > s.config.SimilarityThreshold {
			survivors = append(survivors, r)
		}
	}
	if len(survivors) == 0 {
		return apologyReply
	}

	if len(survivors) > s.config.MaxContextChunks {
		survivors = survivors[:s.config.MaxContextChunks]
	}

	sources := make(map[models.Source]bool)
	parts := make([]string, 0, len(survivors))
	for _, r := range survivors {
		sources[r.Chunk.Source] = true
		parts = append(parts, r.Chunk.Text)
	}
	context := strings.Join(parts, "\n\n")

	sentences := s.splitSentences(context)
	selected := s.selectSentences(query, sentences)

	var response string
	switch {
	case len(selected) > 0:
		response = s.assemble(intent, selected)
	case len(sentences) > 0:
		response = sentences[0]
	default:
		return noSentencesReply
	}

	response = s.finish(response)
	return response + formatSources(sources)
}

// splitSentences cleans residual markers out of the context and splits
// it into trimmed, non-empty sentences.
func (s Synthesizer) splitSentences(context string) []string {
	context = sourceTagRe.ReplaceAllString(context, "")
	context = fromTitleRe.ReplaceAllString(context, "")
	context = sourceLineRe.ReplaceAllString(context, "")

	raw := strings.Split(context, ".")
	sentences := make([]string, 0, len(raw))
	for _, sentence := range raw {
		sentence = strings.TrimSpace(sentence)
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
	}
	return sentences
}

// selectSentences scores the first MaxSentences sentences and returns
// the best MaxSelected in descending score order.
func (s Synthesizer) selectSentences(query string, sentences []string) []string {
	if len(sentences) > s.config.MaxSentences {
		sentences = sentences[:s.config.MaxSentences]
	}

	keywords := queryKeywords(query)

	type scored struct {
		text  string
		score float64
	}

	var candidates []scored
	for pos, sentence := range sentences {
		if len(sentence) < 20 || len(sentence) > 500 {
			continue
		}
		if policyCodeRe.MatchString(sentence) {
			continue
		}

		lower := strings.ToLower(sentence)

		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}

		score := 3*float64(hits) + float64(s.config.MaxSentences-pos)*0.2
		for _, term := range domainTerms {
			if strings.Contains(lower, term) {
				score += 1.5
				break
			}
		}
		for _, phrase := range answerPhrases {
			if strings.Contains(lower, phrase) {
				score += 2
				break
			}
		}

		candidates = append(candidates, scored{text: sentence, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > s.config.MaxSelected {
		candidates = candidates[:s.config.MaxSelected]
	}

	selected := make([]string, len(candidates))
	for i, c := range candidates {
		selected[i] = c.text
	}
	return selected
}

// assemble applies the intent template to the selected sentences. A
// second sentence is appended only when the first leaves room under the
// template's budget.
func (s Synthesizer) assemble(intent Intent, selected []string) string {
	if intent == IntentSettlementRatio {
		return settlementRatioFact
	}

	tmpl := templateFor(intent)
	response := tmpl.lead + selected[0]

	if len(selected) > 1 {
		combined := response + ". " + selected[1]
		if len(combined) <= tmpl.budget {
			response = combined
		}
	}
	return response
}

// finish guarantees a terminal period and enforces the length cap,
// truncating at the last complete sentence boundary within it.
func (s Synthesizer) finish(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasSuffix(response, ".") {
		response += "."
	}

	if len(response) > s.config.MaxResponseLength {
		cut := response[:s.config.MaxResponseLength]
		if idx := strings.LastIndex(cut, "."); idx > 0 {
			response = cut[:idx+1]
		} else {
			response = strings.TrimSpace(cut) + "."
		}
	}
	return response
}

// queryKeywords extracts the content-bearing words from a query.
func queryKeywords(query string) []string {
	words := strings.Fields(strings.ToLower(strings.Map(stripPunct, query)))
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 2 || stopwords[word] {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// formatSources renders the deduplicated source annotation appended to
// retrieval-derived answers.
func formatSources(sources map[models.Source]bool) string {
	var labels []string
	if sources[models.SourcePDF] {
		labels = append(labels, models.SourcePDF.Label())
	}
	if sources[models.SourceWeb] {
		labels = append(labels, models.SourceWeb.Label())
	}
	if len(labels) == 0 {
		return ""
	}
	return fmt.Sprintf("\n\nSources: %s", strings.Join(labels, ", "))
}
