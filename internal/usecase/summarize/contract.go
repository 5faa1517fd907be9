package summarize

// SentenceRanker is the extractive summarization capability.
type SentenceRanker interface {
	RankSentences(texts []string, maxSentences int) (string, error)
}

// PhraseExtractor extracts key phrases from a batch of texts. Independent
// of sentence ranking; runs even when the ranker fails.
type PhraseExtractor interface {
	KeyPhrases(texts []string, maxPhrases int) []string
}
