package knowledge

import "time"

// Passage is a retrieved chunk of source text with its relevance score.
// Passages are produced transiently per query and never persisted by callers.
type Passage struct {
	ID         string  // chunk identifier within the collection
	Content    string  // chunk text
	Source     string  // originating document (e.g., "도서관 이용규정.pdf")
	Similarity float32 // cosine similarity, higher is more relevant
}

// Chunk is a pre-embedded document chunk as shipped in the provisioning
// archive. The embedding is computed offline; the store never re-embeds it.
type Chunk struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Embedding []float32 `json:"embedding"`
}

// DefaultTopK is the number of passages returned when the caller does not
// override it.
const DefaultTopK = 4

// defaultSearchTimeout bounds a single vector search including query
// embedding. Callers override it per deployment via WithTimeout.
const defaultSearchTimeout = 10 * time.Second

// SearchOption configures search behavior using functional options.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK    int32
	timeout time.Duration
}

// WithTopK sets the maximum number of passages to return.
// Values < 1 are ignored; the result may be shorter when the collection has
// fewer matches — never padded.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		if k >= 1 {
			c.topK = int32(k)
		}
	}
}

// WithTimeout sets the deadline for a single search (embedding + query).
func WithTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{
		topK:    DefaultTopK,
		timeout: defaultSearchTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
