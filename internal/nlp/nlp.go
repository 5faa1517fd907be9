// Package nlp holds the shared text primitives used by the in-process
// analysis capabilities: tokenization, stopwords and sentence splitting.
package nlp

import (
	"regexp"
	"strings"
)

var wordRegex = regexp.MustCompile(`[a-zA-Z][a-zA-Z']*`)

// Tokenize lowercases text and splits it into word tokens, dropping
// punctuation. Apostrophes inside words are removed so contractions fold
// into a single token ("won't" -> "wont").
func Tokenize(text string) []string {
	raw := wordRegex.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ReplaceAll(t, "'", "")
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

var sentenceRegex = regexp.MustCompile(`[^.!?]+[.!?]*`)

// SplitSentences splits text into trimmed sentences on terminal punctuation.
func SplitSentences(text string) []string {
	parts := sentenceRegex.FindAllString(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// stopwords is a compact English stopword list tuned for short feedback texts.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a an and are as at be been but by for from had has have he her his
		i if in into is it its me my of on or our she so than that the
		their them then there these they this to was we were what when
		which while who will with would you your am do does did doing
		can could should just not no nor only own same too very s t don
		now during before after above below up down out off over under
		again further once here all any both each few more most other
		some such
	`) {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether the token carries no topical signal.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// ContentTokens tokenizes text and drops stopwords and single-letter tokens.
func ContentTokens(text string) []string {
	all := Tokenize(text)
	out := make([]string, 0, len(all))
	for _, t := range all {
		if len(t) < 2 || IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
