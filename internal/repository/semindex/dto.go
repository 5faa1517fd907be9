package semindex

// itemDoc is the RedisJSON shape of an indexed feedback item.
type itemDoc struct {
	BatchID   string    `json:"batch_id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	IndexedAt string    `json:"indexed_at"`
}
