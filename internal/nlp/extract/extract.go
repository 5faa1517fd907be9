// Package extract implements frequency-based extractive summarization and
// key-phrase extraction, the default in-process summarization capability.
package extract

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/insight/internal/nlp"
)

// DefaultMaxPhrases caps key-phrase output.
const DefaultMaxPhrases = 10

// Summarizer ranks sentences by corpus term frequency.
type Summarizer struct{}

// New creates a summarizer.
func New() *Summarizer {
	return &Summarizer{}
}

// RankSentences joins the texts into a sentence pool and returns the
// maxSentences highest-scoring sentences in their original order. A single
// text with no more than maxSentences sentences is returned unchanged.
func (s *Summarizer) RankSentences(texts []string, maxSentences int) (string, error) {
	if len(texts) == 0 || maxSentences <= 0 {
		return "", nil
	}

	var sentences []string
	for _, text := range texts {
		sentences = append(sentences, nlp.SplitSentences(text)...)
	}
	if len(sentences) == 0 {
		return "", nil
	}
	if len(texts) == 1 && len(sentences) <= maxSentences {
		return strings.TrimSpace(texts[0]), nil
	}

	// Corpus term frequencies over content tokens.
	freq := make(map[string]float64)
	tokenized := make([][]string, len(sentences))
	for i, sentence := range sentences {
		tokenized[i] = nlp.ContentTokens(sentence)
		for _, tok := range tokenized[i] {
			freq[tok]++
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, toks := range tokenized {
		var sum float64
		for _, tok := range toks {
			sum += freq[tok]
		}
		// dampen long sentences so score measures density, not length
		scores[i] = ranked{idx: i, score: sum / float64(len(toks)+1)}
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})

	n := maxSentences
	if n > len(scores) {
		n = len(scores)
	}
	picked := make([]int, n)
	for i := 0; i < n; i++ {
		picked[i] = scores[i].idx
	}
	sort.Ints(picked)

	out := make([]string, n)
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

// KeyPhrases extracts the most frequent content unigrams and bigrams by
// document frequency, ranked by count then alphabetically.
func (s *Summarizer) KeyPhrases(texts []string, maxPhrases int) []string {
	if maxPhrases <= 0 {
		maxPhrases = DefaultMaxPhrases
	}

	docFreq := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		toks := nlp.ContentTokens(text)
		for i, tok := range toks {
			seen[tok] = struct{}{}
			if i+1 < len(toks) {
				seen[tok+" "+toks[i+1]] = struct{}{}
			}
		}
		for phrase := range seen {
			docFreq[phrase]++
		}
	}

	phrases := make([]string, 0, len(docFreq))
	for p, df := range docFreq {
		if df < 2 && len(texts) > 1 {
			continue // phrases in a single document carry no batch signal
		}
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(a, b int) bool {
		if docFreq[phrases[a]] != docFreq[phrases[b]] {
			return docFreq[phrases[a]] > docFreq[phrases[b]]
		}
		return phrases[a] < phrases[b]
	})

	if len(phrases) > maxPhrases {
		phrases = phrases[:maxPhrases]
	}
	return phrases
}
