// Package cluster implements deterministic keyword clustering, the default
// in-process topic discovery capability. Documents are greedily grouped by
// cosine similarity over stopword-filtered term frequencies; no randomness
// is involved, so identical input always yields identical topics.
package cluster

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/kailas-cloud/insight/internal/domain"
	"github.com/kailas-cloud/insight/internal/nlp"
)

// Defaults for the clusterer knobs.
const (
	DefaultSimilarityThreshold = 0.25
	DefaultMaxKeywords         = 5
	DefaultMaxRepresentative   = domain.DefaultRepresentativeDocs
	maxRepresentativeChars     = 160
)

// Clusterer groups texts into topics by lexical similarity.
type Clusterer struct {
	similarityThreshold float64
	maxKeywords         int
	maxRepresentative   int
}

// New creates a clusterer with default knobs.
func New() *Clusterer {
	return &Clusterer{
		similarityThreshold: DefaultSimilarityThreshold,
		maxKeywords:         DefaultMaxKeywords,
		maxRepresentative:   DefaultMaxRepresentative,
	}
}

// WithRepresentativeDocs caps the representative document sample per topic.
func (c *Clusterer) WithRepresentativeDocs(n int) *Clusterer {
	if n > 0 {
		c.maxRepresentative = n
	}
	return c
}

type group struct {
	id    int
	terms map[string]float64
	docs  []int
}

// Cluster groups texts into at most maxTopics topics of at least
// minTopicSize documents each, ranked by descending size. Documents in
// groups below minTopicSize, or in groups cut by the maxTopics cap, are
// counted as outliers.
func (c *Clusterer) Cluster(texts []string, maxTopics, minTopicSize int) ([]domain.Topic, int, error) {
	vectors := make([]map[string]float64, len(texts))
	for i, text := range texts {
		vectors[i] = termFreq(text)
	}

	var groups []*group
	for i, vec := range vectors {
		if len(vec) == 0 {
			// no content terms; treat as its own singleton group
			groups = append(groups, &group{id: len(groups), terms: map[string]float64{}, docs: []int{i}})
			continue
		}

		best := -1
		bestSim := 0.0
		for gi, g := range groups {
			sim := cosine(vec, g.terms)
			if sim >= c.similarityThreshold && sim > bestSim {
				best = gi
				bestSim = sim
			}
		}

		if best < 0 {
			g := &group{id: len(groups), terms: map[string]float64{}, docs: nil}
			groups = append(groups, g)
			best = len(groups) - 1
		}
		g := groups[best]
		g.docs = append(g.docs, i)
		for term, f := range vec {
			g.terms[term] += f
		}
	}

	// Rank by size, ties by creation order for determinism.
	sort.SliceStable(groups, func(a, b int) bool {
		if len(groups[a].docs) != len(groups[b].docs) {
			return len(groups[a].docs) > len(groups[b].docs)
		}
		return groups[a].id < groups[b].id
	})

	topics := make([]domain.Topic, 0, maxTopics)
	outliers := 0
	for _, g := range groups {
		if len(g.docs) < minTopicSize || len(topics) >= maxTopics {
			outliers += len(g.docs)
			continue
		}
		topics = append(topics, domain.Topic{
			TopicID:            len(topics),
			Keywords:           c.keywords(g),
			Size:               len(g.docs),
			RepresentativeDocs: c.representatives(g, texts),
		})
	}

	return topics, outliers, nil
}

// keywords returns the top cluster terms by aggregated frequency, ties
// broken alphabetically.
func (c *Clusterer) keywords(g *group) []string {
	terms := make([]string, 0, len(g.terms))
	for t := range g.terms {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(a, b int) bool {
		if g.terms[terms[a]] != g.terms[terms[b]] {
			return g.terms[terms[a]] > g.terms[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if len(terms) > c.maxKeywords {
		terms = terms[:c.maxKeywords]
	}
	return terms
}

// representatives samples member documents in assignment order.
func (c *Clusterer) representatives(g *group, texts []string) []string {
	n := len(g.docs)
	if n > c.maxRepresentative {
		n = c.maxRepresentative
	}
	docs := make([]string, 0, n)
	for _, idx := range g.docs[:n] {
		doc := texts[idx]
		if len(doc) > maxRepresentativeChars {
			// Back up to a rune boundary so the cut never splits a rune.
			cut := maxRepresentativeChars
			for cut > 0 && !utf8.RuneStart(doc[cut]) {
				cut--
			}
			doc = doc[:cut]
		}
		docs = append(docs, doc)
	}
	return docs
}

func termFreq(text string) map[string]float64 {
	freq := make(map[string]float64)
	for _, tok := range nlp.ContentTokens(text) {
		freq[tok]++
	}
	return freq
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for t, fa := range a {
		normA += fa * fa
		if fb, ok := b[t]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range b {
		normB += fb * fb
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
