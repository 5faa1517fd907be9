package embcache

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/insight/internal/domain"
)

// BatchEmbed partitions texts into cache hits and misses, sends only the
// misses to the inner embedder, and reassembles results in input order.
// Token usage reflects misses only.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	embeddings := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))
	missKeys := make([]string, 0, len(texts))

	for i, text := range texts {
		key := c.cacheKey(text)
		if vec, ok := c.getFromCache(ctx, key); ok {
			c.incCache("hit")
			embeddings[i] = vec
			continue
		}
		c.incCache("miss")
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
		missKeys = append(missKeys, key)
	}

	result := domain.BatchEmbeddingResult{Embeddings: embeddings}
	if len(missTexts) == 0 {
		return result, nil
	}

	missResult, err := domain.EmbedAll(ctx, c.inner, missTexts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embed misses: %w", err)
	}
	if len(missResult.Embeddings) != len(missTexts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf(
			"embedder returned %d vectors for %d texts", len(missResult.Embeddings), len(missTexts))
	}

	for j, vec := range missResult.Embeddings {
		embeddings[missIdx[j]] = vec
		c.putToCache(ctx, missKeys[j], vec)
	}

	result.PromptTokens = missResult.PromptTokens
	result.TotalTokens = missResult.TotalTokens
	return result, nil
}
